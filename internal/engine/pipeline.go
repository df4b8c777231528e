package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/trenchturn/internal/errors"
)

//go:generate mockgen -destination=mock/mock_planner.go -package=enginemock github.com/KirkDiggler/trenchturn/internal/engine Planner

// maxCyclePasses covers Planning -> Execution -> Resolution -> Planning
const maxCyclePasses = 3

// Planner commits actions for non-player entities. It is only called while
// the phase is Planning and the policy has opened planning.
type Planner interface {
	Plan(ctx context.Context, w *World) error
}

// PipelineConfig configures a Pipeline
type PipelineConfig struct {
	World   *World
	Effects Effects
	// Planner is optional
	Planner         Planner
	ProgressPerPass time.Duration
	CheckInvariants bool
}

// Validate validates the configuration
func (c *PipelineConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.World == nil {
		vb.RequiredField("World")
	}
	if c.Effects == nil {
		vb.RequiredField("Effects")
	}
	if c.ProgressPerPass < 0 {
		vb.InvalidField("ProgressPerPass", "must not be negative")
	}

	return vb.Build()
}

// Pipeline is the one ordered call chain for a processing pass
type Pipeline struct {
	world           *World
	planner         Planner
	controller      *Controller
	executor        *Executor
	checkInvariants bool
}

// NewPipeline creates a pipeline over a world
func NewPipeline(cfg *PipelineConfig) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Pipeline{
		world:           cfg.World,
		planner:         cfg.Planner,
		controller:      NewController(),
		executor:        NewExecutor(cfg.Effects, cfg.ProgressPerPass),
		checkInvariants: cfg.CheckInvariants,
	}, nil
}

// World returns the world the pipeline drives
func (p *Pipeline) World() *World {
	return p.world
}

// StepResult is what one pass produced
type StepResult struct {
	Planned    bool
	Transition Transition
	Outcomes   []Outcome
}

// Step runs one pass: plan, advance, execute. The executor sees the phase
// the controller produced in this same call.
func (p *Pipeline) Step(ctx context.Context) (*StepResult, error) {
	w := p.world
	result := &StepResult{}

	if p.planner != nil && w.state.phase == PhasePlanning && w.policy.PlanningOpen(w) {
		if err := p.planner.Plan(ctx, w); err != nil {
			return nil, errors.Wrap(err, "failed to plan")
		}
		result.Planned = true
	}

	result.Transition = p.controller.Advance(w)
	observed := w.state.phase
	result.Outcomes = p.executor.Execute(ctx, w)

	if result.Transition.Changed() {
		slog.Debug("Phase transition",
			"from", result.Transition.From,
			"to", result.Transition.To,
			"turn", result.Transition.Turn,
			"outcomes", len(result.Outcomes))
	}

	if p.checkInvariants {
		if err := checkPass(w, result.Transition, observed); err != nil {
			slog.Error("Turn invariant violated", "error", err, "turn", w.state.turnIndex)
			return result, err
		}
	}

	return result, nil
}

// Cycle steps until the turn completes or Planning is still waiting on
// readiness. It never takes more than three passes.
func (p *Pipeline) Cycle(ctx context.Context) ([]*StepResult, error) {
	var steps []*StepResult
	startTurn := p.world.state.turnIndex

	for i := 0; i < maxCyclePasses; i++ {
		step, err := p.Step(ctx)
		if step != nil {
			steps = append(steps, step)
		}
		if err != nil {
			return steps, err
		}

		if !step.Transition.Changed() {
			break
		}
		if p.world.state.phase == PhasePlanning && p.world.state.turnIndex > startTurn {
			break
		}
	}

	return steps, nil
}
