package battle

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/trenchturn/internal/engine"
	"github.com/KirkDiggler/trenchturn/internal/errors"
)

// Default battlefield size in tiles
const (
	DefaultWidth  = 100
	DefaultHeight = 100
)

// Config configures a Battle
type Config struct {
	Width  int
	Height int
	// Roller rolls the d100 for shots; defaults to dice.DefaultRoller
	Roller dice.Roller
}

// Validate validates the configuration
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Width < 0 {
		vb.InvalidField("Width", "must not be negative")
	}
	if c.Height < 0 {
		vb.InvalidField("Height", "must not be negative")
	}

	return vb.Build()
}

// Battle is the soldier state for one engagement
type Battle struct {
	width  int
	height int
	roller dice.Roller

	soldiers map[string]*Soldier
	order    []string

	objectives []*Objective
}

var _ engine.Effects = (*Battle)(nil)

// New creates an empty battlefield
func New(cfg *Config) (*Battle, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	b := &Battle{
		width:    cfg.Width,
		height:   cfg.Height,
		roller:   cfg.Roller,
		soldiers: make(map[string]*Soldier),
	}
	if b.width == 0 {
		b.width = DefaultWidth
	}
	if b.height == 0 {
		b.height = DefaultHeight
	}
	if b.roller == nil {
		b.roller = dice.DefaultRoller
	}

	return b, nil
}

// Width returns the battlefield width
func (b *Battle) Width() int { return b.width }

// Height returns the battlefield height
func (b *Battle) Height() int { return b.height }

// InBounds reports whether p is on the battlefield
func (b *Battle) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

// Add places an entity on the battlefield. Only soldiers can be placed.
func (b *Battle) Add(e core.Entity) error {
	if e == nil {
		return errors.InvalidArgument("soldier is required")
	}
	s, ok := e.(*Soldier)
	if !ok {
		return errors.InvalidArgumentf("cannot place %s %s on the battlefield", e.GetType(), e.GetID())
	}
	if s == nil {
		return errors.InvalidArgument("soldier is required")
	}
	if s.ID == "" {
		return errors.InvalidArgument("soldier ID is required")
	}
	if _, exists := b.soldiers[s.ID]; exists {
		return errors.AlreadyExistsf("soldier %s already exists", s.ID)
	}
	if !b.InBounds(s.Position) {
		return errors.InvalidArgumentf("soldier %s placed off the battlefield at (%d,%d)", s.ID, s.Position.X, s.Position.Y)
	}
	if s.Weapon == nil {
		s.Weapon = NewWeapon(WeaponRifle)
	}
	if s.Health.Max == 0 {
		s.Health = NewHealth(DefaultHealth)
	}

	b.soldiers[s.ID] = s
	b.order = append(b.order, s.ID)
	return nil
}

// Soldier looks up a soldier, living or dead
func (b *Battle) Soldier(id string) (*Soldier, bool) {
	s, ok := b.soldiers[id]
	return s, ok
}

// Soldiers returns every soldier in placement order
func (b *Battle) Soldiers() []*Soldier {
	out := make([]*Soldier, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.soldiers[id])
	}
	return out
}

// SoldierFor resolves an entity to the soldier placed under its ID.
// Entities of any other type never resolve.
func (b *Battle) SoldierFor(e core.Entity) (*Soldier, bool) {
	if e == nil || e.GetType() != EntityType {
		return nil, false
	}
	s, ok := b.soldiers[e.GetID()]
	return s, ok
}

// Living counts living soldiers of a faction
func (b *Battle) Living(f Faction) int {
	n := 0
	for _, s := range b.soldiers {
		if s.Faction == f && s.Alive() {
			n++
		}
	}
	return n
}

// Nearest returns the closest living enemy of e, if any
func (b *Battle) Nearest(e core.Entity) (*Soldier, int, bool) {
	s, ok := b.SoldierFor(e)
	if !ok {
		return nil, 0, false
	}

	var (
		best     *Soldier
		bestDist int
	)
	for _, id := range b.order {
		other := b.soldiers[id]
		if other.ID == s.ID || !other.Alive() || !s.Faction.Opposes(other.Faction) {
			continue
		}
		d := Distance(s.Position, other.Position)
		if best == nil || d < bestDist {
			best, bestDist = other, d
		}
	}
	return best, bestDist, best != nil
}

// CostFor is the time an action costs this soldier. Shots and reloads are
// paced by the soldier's weapon; everything else uses the engine defaults.
func (b *Battle) CostFor(soldierID string, action engine.Action) time.Duration {
	s, ok := b.soldiers[soldierID]
	if !ok || s.Weapon == nil {
		return engine.BaseCost(action)
	}

	switch action.(type) {
	case engine.Shoot:
		return s.Weapon.Stats.FireTime
	case engine.Reload:
		return s.Weapon.Stats.ReloadTime
	default:
		return engine.BaseCost(action)
	}
}

// Apply resolves an action against the battlefield
func (b *Battle) Apply(ctx context.Context, entityID string, action engine.Action) engine.Outcome {
	s, ok := b.soldiers[entityID]
	if !ok {
		return engine.Outcome{Description: fmt.Sprintf("%s is not on the battlefield", entityID)}
	}

	switch act := action.(type) {
	case engine.Move:
		return b.move(s, act)
	case engine.Rotate:
		return b.rotate(s, act)
	case engine.Shoot:
		return b.shoot(ctx, s, act)
	case engine.Reload:
		s.Weapon.Reload()
		return engine.Outcome{Description: fmt.Sprintf("%s reloads.", s.Label())}
	case engine.ThrowGrenade:
		return engine.Outcome{Description: fmt.Sprintf("%s throws a grenade at (%d, %d)!", s.Label(), act.X, act.Y)}
	case engine.Wait:
		return engine.Outcome{Description: fmt.Sprintf("%s waits.", s.Label())}
	default:
		return engine.Outcome{Description: fmt.Sprintf("%s hesitates.", s.Label())}
	}
}

func (b *Battle) move(s *Soldier, act engine.Move) engine.Outcome {
	dest := Position{X: s.Position.X + act.DX, Y: s.Position.Y + act.DY}
	if !b.InBounds(dest) {
		return engine.Outcome{Description: fmt.Sprintf("%s cannot move off the battlefield.", s.Label())}
	}

	s.Position = dest
	if f, ok := FacingFromMovement(act.DX, act.DY); ok {
		s.Facing = f
	}
	return engine.Outcome{Description: fmt.Sprintf("%s moved to (%d, %d)", s.Label(), dest.X, dest.Y)}
}

func (b *Battle) rotate(s *Soldier, act engine.Rotate) engine.Outcome {
	if act.Clockwise {
		s.Facing = s.Facing.RotateCW()
	} else {
		s.Facing = s.Facing.RotateCCW()
	}
	return engine.Outcome{Description: fmt.Sprintf("%s turns to face %s.", s.Label(), s.Facing)}
}

func (b *Battle) shoot(ctx context.Context, s *Soldier, act engine.Shoot) engine.Outcome {
	target, ok := b.soldiers[act.TargetID]
	if !ok {
		return engine.Outcome{Description: fmt.Sprintf("%s has no target!", s.Label())}
	}
	if !target.Alive() {
		return engine.Outcome{Description: fmt.Sprintf("%s holds fire, %s is already down.", s.Label(), target.Label())}
	}
	if !s.Weapon.Fire() {
		return engine.Outcome{Description: fmt.Sprintf("%s is out of ammo!", s.Label())}
	}

	distance := Distance(s.Position, target.Position)
	chance := s.Weapon.HitChance(distance)
	if f, ok := FacingFromMovement(target.Position.X-s.Position.X, target.Position.Y-s.Position.Y); ok {
		s.Facing = f
	}

	if !b.hits(ctx, s, chance) {
		return engine.Outcome{Description: fmt.Sprintf("%s shoots at %s and misses! (%d%% chance, %d tiles)",
			s.Label(), target.Label(), percent(chance), distance)}
	}

	damage := s.Weapon.Stats.Damage
	if target.Health.TakeDamage(damage) {
		return engine.Outcome{Description: fmt.Sprintf("%s shoots %s for %d damage! (%d HP remaining)",
			s.Label(), target.Label(), damage, target.Health.Current)}
	}

	return engine.Outcome{
		Description: fmt.Sprintf("%s shoots %s for %d damage! %s is killed!",
			s.Label(), target.Label(), damage, target.Label()),
		Casualties: []string{target.ID},
	}
}

// hits rolls a d100 against the hit chance; a failed roll counts as a miss
func (b *Battle) hits(ctx context.Context, s *Soldier, chance float64) bool {
	if chance <= 0 {
		return false
	}

	roll, err := b.roller.Roll(100)
	if err != nil {
		slog.WarnContext(ctx, "Shot roll failed", "soldier_id", s.ID, "error", err)
		return false
	}

	return roll <= percent(chance)
}

func percent(chance float64) int {
	return int(math.Round(chance * 100))
}
