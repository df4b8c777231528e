package engine

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_effects.go -package=enginemock github.com/KirkDiggler/trenchturn/internal/engine Effects

// DefaultProgressPerPass is how much a locked record advances per Execution pass
const DefaultProgressPerPass = time.Second

// Effects applies an action's kind-specific effect to simulation state
// owned outside the engine (positions, ammunition, health).
type Effects interface {
	Apply(ctx context.Context, entityID string, action Action) Outcome
}

// Outcome reports what an Execution pass did for one entity
type Outcome struct {
	EntityID    string
	Kind        ActionKind
	Description string
	// Completed is false for a locked record that only made progress
	Completed bool
	// Casualties are entities killed by this effect
	Casualties []string
}

// Executor applies committed records. It does nothing outside Execution.
type Executor struct {
	effects         Effects
	progressPerPass time.Duration
}

// NewExecutor creates an executor; non-positive progress uses DefaultProgressPerPass
func NewExecutor(effects Effects, progressPerPass time.Duration) *Executor {
	if progressPerPass <= 0 {
		progressPerPass = DefaultProgressPerPass
	}
	return &Executor{effects: effects, progressPerPass: progressPerPass}
}

// Execute walks entities in spawn order and applies their records.
// Entities killed earlier in the same pass do not act.
func (x *Executor) Execute(ctx context.Context, w *World) []Outcome {
	if w.state.phase != PhaseExecution {
		return nil
	}

	var outcomes []Outcome
	for _, e := range w.entities {
		rec := e.record
		if rec == nil || !rec.committed || w.IsCasualty(e.ID) {
			continue
		}
		if rec.locked && rec.complete() {
			// fired in an earlier pass, waiting on Resolution
			continue
		}

		if rec.locked {
			rec.advance(x.progressPerPass)
			if !rec.complete() {
				outcomes = append(outcomes, Outcome{
					EntityID:    e.ID,
					Kind:        rec.action.Kind(),
					Description: Describe(rec.action) + " in progress",
				})
				continue
			}
		}

		out := x.effects.Apply(ctx, e.ID, rec.action)
		out.EntityID = e.ID
		out.Kind = rec.action.Kind()
		out.Completed = true
		for _, id := range out.Casualties {
			w.markCasualty(id)
		}
		outcomes = append(outcomes, out)
	}

	return outcomes
}
