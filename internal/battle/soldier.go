package battle

import (
	"math"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// EntityType is the core.Entity type of every soldier
const EntityType = "soldier"

// DefaultHealth is the starting health of every soldier
const DefaultHealth = 100

// Faction is a side of the war
type Faction string

// Factions
const (
	FactionAllies        Faction = "allies"
	FactionCentralPowers Faction = "central_powers"
)

// DisplayName is the faction as written in the feed
func (f Faction) DisplayName() string {
	switch f {
	case FactionAllies:
		return "Allies"
	case FactionCentralPowers:
		return "Central Powers"
	default:
		return string(f)
	}
}

// Opposes reports whether f and other are at war
func (f Faction) Opposes(other Faction) bool {
	return f != other
}

// Rank orders soldiers by seniority
type Rank int

// Ranks, junior first
const (
	RankPrivate Rank = iota
	RankCorporal
	RankSergeant
	RankLieutenant
	RankCaptain
)

func (r Rank) String() string {
	switch r {
	case RankPrivate:
		return "Pvt"
	case RankCorporal:
		return "Cpl"
	case RankSergeant:
		return "Sgt"
	case RankLieutenant:
		return "Lt"
	case RankCaptain:
		return "Cpt"
	default:
		return "?"
	}
}

// Facing is one of eight compass directions, clockwise from north
type Facing int

// Facings
const (
	FacingN Facing = iota
	FacingNE
	FacingE
	FacingSE
	FacingS
	FacingSW
	FacingW
	FacingNW
)

var facingNames = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// facing vectors with y growing southward
var facingVectors = [...][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}

func (f Facing) String() string {
	if f < FacingN || f > FacingNW {
		return "?"
	}
	return facingNames[f]
}

// RotateCW turns one step clockwise
func (f Facing) RotateCW() Facing {
	return (f + 1) % 8
}

// RotateCCW turns one step counter-clockwise
func (f Facing) RotateCCW() Facing {
	return (f + 7) % 8
}

// FacingFromMovement returns the facing of a step, false for no movement
func FacingFromMovement(dx, dy int) (Facing, bool) {
	sx, sy := sign(dx), sign(dy)
	for i, v := range facingVectors {
		if v[0] == sx && v[1] == sy {
			return Facing(i), true
		}
	}
	return FacingN, false
}

// Position is a tile on the battlefield
type Position struct {
	X int
	Y int
}

// Distance is the euclidean distance in tiles rounded up
func Distance(a, b Position) int {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return int(math.Ceil(math.Sqrt(dx*dx + dy*dy)))
}

// Health tracks hit points
type Health struct {
	Current int
	Max     int
}

// NewHealth returns full health
func NewHealth(maxHP int) Health {
	return Health{Current: maxHP, Max: maxHP}
}

// TakeDamage lowers health, never below zero, and reports whether the
// soldier is still alive
func (h *Health) TakeDamage(amount int) bool {
	if amount > 0 {
		h.Current -= amount
	}
	if h.Current < 0 {
		h.Current = 0
	}
	return h.Current > 0
}

// Alive reports whether any health remains
func (h Health) Alive() bool {
	return h.Current > 0
}

// Soldier is one combatant
type Soldier struct {
	ID       string
	Name     string
	Faction  Faction
	Rank     Rank
	Player   bool
	Position Position
	Facing   Facing
	Health   Health
	Weapon   *Weapon
}

var _ core.Entity = (*Soldier)(nil)

// GetID returns the soldier ID
func (s *Soldier) GetID() string {
	return s.ID
}

// GetType returns the entity type
func (s *Soldier) GetType() string {
	return EntityType
}

// Alive reports whether the soldier can still act
func (s *Soldier) Alive() bool {
	return s.Health.Alive()
}

// Label is the rank and name used in the event feed
func (s *Soldier) Label() string {
	return s.Rank.String() + " " + s.Name
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
