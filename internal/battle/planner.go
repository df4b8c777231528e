package battle

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/trenchturn/internal/engine"
	"github.com/KirkDiggler/trenchturn/internal/errors"
)

// StandingOrders is a fixed-priority NPC planner: reload when empty, fire
// at the nearest enemy in range, close the distance, otherwise wait.
// Every NPC with time left gets exactly one commit and is marked ready, so
// readiness settles under either built-in order policy.
type StandingOrders struct {
	battle *Battle
}

var _ engine.Planner = (*StandingOrders)(nil)

// NewStandingOrders creates a planner over a battle
func NewStandingOrders(b *Battle) *StandingOrders {
	return &StandingOrders{battle: b}
}

// Plan commits one action for every idle NPC
func (p *StandingOrders) Plan(ctx context.Context, w *engine.World) error {
	for _, e := range w.Entities() {
		if e.Player || e.Budget.AvailableTime() <= 0 {
			continue
		}
		if e.Record() != nil {
			if err := w.MarkReady(e.ID); err != nil {
				return errors.Wrapf(err, "failed to mark %s ready", e.ID)
			}
			continue
		}

		s, ok := p.battle.SoldierFor(e.Source)
		if !ok || !s.Alive() {
			continue
		}

		action := p.choose(s, e.Budget)
		cost := p.battle.CostFor(s.ID, action)
		if !e.Budget.CanAfford(cost) {
			action = engine.Wait{}
			cost = p.battle.CostFor(s.ID, action)
		}

		if _, err := w.Commit(s.ID, action, engine.CommitOptions{Cost: cost}); err != nil {
			return errors.Wrapf(err, "failed to commit for %s", s.ID)
		}
		if err := w.MarkReady(s.ID); err != nil {
			return errors.Wrapf(err, "failed to mark %s ready", s.ID)
		}

		slog.DebugContext(ctx, "NPC committed",
			"soldier_id", s.ID,
			"action", engine.Describe(action),
			"cost", cost)
	}

	return nil
}

func (p *StandingOrders) choose(s *Soldier, budget *engine.TimeBudget) engine.Action {
	if !s.Weapon.CanFire() {
		return engine.Reload{}
	}

	enemy, distance, ok := p.battle.Nearest(s)
	if !ok {
		return engine.Wait{}
	}

	if s.Weapon.InRange(distance) && budget.CanAfford(s.Weapon.Stats.FireTime) {
		return engine.Shoot{TargetID: enemy.ID}
	}

	if distance > s.Weapon.Stats.EffectiveRange {
		step := engine.Move{DX: sign(enemy.Position.X - s.Position.X), DY: sign(enemy.Position.Y - s.Position.Y)}
		if p.battle.InBounds(Position{X: s.Position.X + step.DX, Y: s.Position.Y + step.DY}) {
			return step
		}
	}

	return engine.Wait{}
}
