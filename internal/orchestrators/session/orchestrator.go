// Package session hosts independent battles by ID. Each session owns one
// engine World with its Pipeline and runs a full processing cycle after
// every accepted input.
package session

//go:generate mockgen -destination=mock/mock_service.go -package=sessionmock github.com/KirkDiggler/trenchturn/internal/orchestrators/session Service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/trenchturn/internal/battle"
	"github.com/KirkDiggler/trenchturn/internal/engine"
	"github.com/KirkDiggler/trenchturn/internal/errors"
	"github.com/KirkDiggler/trenchturn/internal/pkg/idgen"
	"github.com/KirkDiggler/trenchturn/internal/repositories/eventlog"
)

// Service defines the interface for battle sessions
type Service interface {
	StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error)
	// Commit returns the accepted record alongside the error when the action
	// was committed but processing it afterwards failed. The commit stands;
	// retrying the same input in the same turn reports AlreadyCommitted.
	Commit(ctx context.Context, input *CommitInput) (*CommitOutput, error)
	MarkReady(ctx context.Context, input *MarkReadyInput) (*MarkReadyOutput, error)
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error)
	ListEvents(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error)
	EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error)
}

// Defaults apply to sessions that do not override them
type Defaults struct {
	OrderPolicy     engine.OrderPolicy
	TurnBudget      time.Duration
	MaxDebt         time.Duration
	ProgressPerPass time.Duration
	CheckInvariants bool
	Width           int
	Height          int
}

// Config holds the dependencies for the session orchestrator
type Config struct {
	EventLog    eventlog.Repository
	IDGenerator idgen.Generator

	// Roller defaults to dice.DefaultRoller
	Roller dice.Roller
	// Readiness enables initiative ordering
	Readiness engine.ReadinessFunc

	Defaults Defaults
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.EventLog == nil {
		vb.RequiredField("EventLog")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Defaults.OrderPolicy != "" {
		errors.ValidateEnum("Defaults.OrderPolicy", string(c.Defaults.OrderPolicy), engine.OrderPolicyNames(), vb)
	}
	if c.Defaults.MaxDebt < 0 {
		vb.InvalidField("Defaults.MaxDebt", "must not be negative")
	}
	if c.Defaults.ProgressPerPass < 0 {
		vb.InvalidField("Defaults.ProgressPerPass", "must not be negative")
	}

	return vb.Build()
}

// session is one battle. Its mutex serialises every input so the World
// keeps a single owner.
type session struct {
	mu sync.Mutex

	id       string
	playerID string
	status   Status
	winner   battle.Faction
	// captured is the faction that took the last flag it needed
	captured battle.Faction
	// ended sessions have been removed and reject every input
	ended bool

	world    *engine.World
	battle   *battle.Battle
	pipeline *engine.Pipeline
}

type orchestrator struct {
	eventLog  eventlog.Repository
	idGen     idgen.Generator
	roller    dice.Roller
	readiness engine.ReadinessFunc
	defaults  Defaults

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewOrchestrator creates a new session orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	defaults := cfg.Defaults
	if defaults.OrderPolicy == "" {
		defaults.OrderPolicy = engine.OrderPlayerFirst
	}

	return &orchestrator{
		eventLog:  cfg.EventLog,
		idGen:     cfg.IDGenerator,
		roller:    cfg.Roller,
		readiness: cfg.Readiness,
		defaults:  defaults,
		sessions:  make(map[string]*session),
	}, nil
}

// StartSession builds a battle, spawns every soldier into a new World and
// opens turn 1
func (o *orchestrator) StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	policy := o.defaults.OrderPolicy
	if input.OrderPolicy != "" {
		parsed, err := engine.ParseOrderPolicy(input.OrderPolicy)
		if err != nil {
			return nil, err
		}
		policy = parsed
	}
	if policy == engine.OrderInitiativeBased && o.readiness == nil {
		return nil, errors.FailedPrecondition("initiative ordering is not configured on this server")
	}

	specs, objectives := input.Soldiers, input.Objectives
	if len(specs) == 0 {
		specs = battle.Skirmish()
		if len(objectives) == 0 {
			objectives = battle.SkirmishObjectives()
		}
	}
	playerID, err := validateRoster(specs, policy)
	if err != nil {
		return nil, err
	}

	budget := o.defaults.TurnBudget
	if input.TurnBudget != 0 {
		budget = input.TurnBudget
	}

	world, err := engine.NewWorld(&engine.WorldConfig{
		OrderPolicy:  policy,
		Readiness:    o.readiness,
		BaseDuration: budget,
		MaxDebt:      o.defaults.MaxDebt,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create world")
	}

	field, err := battle.New(&battle.Config{
		Width:  o.defaults.Width,
		Height: o.defaults.Height,
		Roller: o.roller,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create battle")
	}

	for _, spec := range specs {
		soldier := spec.Build()
		if err := field.Add(soldier); err != nil {
			return nil, errors.Wrapf(err, "failed to place soldier %s", spec.ID)
		}
		if _, err := world.Spawn(&engine.SpawnInput{Entity: soldier, Player: soldier.Player}); err != nil {
			return nil, errors.Wrapf(err, "failed to spawn soldier %s", spec.ID)
		}
	}

	for _, spec := range objectives {
		if err := field.AddObjective(spec.Build()); err != nil {
			return nil, errors.Wrapf(err, "failed to plant objective %s", spec.ID)
		}
	}

	pipeline, err := engine.NewPipeline(&engine.PipelineConfig{
		World:           world,
		Effects:         field,
		Planner:         battle.NewStandingOrders(field),
		ProgressPerPass: o.defaults.ProgressPerPass,
		CheckInvariants: o.defaults.CheckInvariants,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create pipeline")
	}

	s := &session{
		id:       o.idGen.Generate(),
		playerID: playerID,
		status:   StatusActive,
		world:    world,
		battle:   field,
		pipeline: pipeline,
	}

	o.mu.Lock()
	if _, exists := o.sessions[s.id]; exists {
		o.mu.Unlock()
		return nil, errors.AlreadyExistsf("session %s already exists", s.id)
	}
	o.sessions[s.id] = s
	o.mu.Unlock()

	events := []eventlog.Entry{{Turn: world.TurnIndex(), Message: engine.TurnBanner(world.TurnIndex())}}
	if err := o.record(ctx, s.id, events); err != nil {
		return nil, err
	}

	slog.Info("Session started",
		"session_id", s.id,
		"order_policy", policy,
		"soldiers", len(specs),
		"objectives", len(objectives))

	return &StartSessionOutput{Session: s.view(), Events: events}, nil
}

// Commit queues an action for an entity and runs the pipeline
func (o *orchestrator) Commit(ctx context.Context, input *CommitInput) (*CommitOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EntityID == "" {
		return nil, errors.InvalidArgument("entity ID is required")
	}
	if input.Action == nil {
		return nil, errors.InvalidArgument("action is required")
	}

	s, err := o.get(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.active(); err != nil {
		return nil, err
	}

	soldier, ok := s.battle.Soldier(input.EntityID)
	if !ok {
		return nil, errors.NotFoundf("soldier %s not found", input.EntityID)
	}
	if !soldier.Alive() {
		return nil, errors.FailedPreconditionf("soldier %s is dead", input.EntityID)
	}
	if err := s.validateAction(input.Action); err != nil {
		return nil, err
	}

	cost := s.battle.CostFor(input.EntityID, input.Action)
	rec, err := s.world.Commit(input.EntityID, input.Action, engine.CommitOptions{
		Cost:      cost,
		MultiTurn: input.MultiTurn,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Action committed",
		"session_id", s.id,
		"entity_id", input.EntityID,
		"action", rec.Description,
		"cost", rec.TimeCost,
		"turn", rec.TurnCommitted)

	events, err := o.advance(ctx, s)
	if err != nil {
		return &CommitOutput{Record: rec, Session: s.view()}, err
	}

	return &CommitOutput{Record: rec, Session: s.view(), Events: events}, nil
}

// MarkReady adds an entity to the ready set and runs the pipeline
func (o *orchestrator) MarkReady(ctx context.Context, input *MarkReadyInput) (*MarkReadyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EntityID == "" {
		return nil, errors.InvalidArgument("entity ID is required")
	}

	s, err := o.get(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.active(); err != nil {
		return nil, err
	}
	if err := s.world.MarkReady(input.EntityID); err != nil {
		return nil, err
	}

	events, err := o.advance(ctx, s)
	if err != nil {
		return nil, err
	}

	return &MarkReadyOutput{Session: s.view(), Events: events}, nil
}

// GetSnapshot returns the current session view
func (o *orchestrator) GetSnapshot(_ context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s, err := o.get(input.SessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return nil, errors.NotFoundf("session %s not found", s.id)
	}

	return &GetSnapshotOutput{Session: s.view()}, nil
}

// ListEvents returns the newest feed entries
func (o *orchestrator) ListEvents(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if _, err := o.get(input.SessionID); err != nil {
		return nil, err
	}

	out, err := o.eventLog.Recent(ctx, &eventlog.RecentInput{SessionID: input.SessionID, Limit: input.Limit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read events")
	}

	return &ListEventsOutput{Entries: out.Entries}, nil
}

// EndSession drops a session and its feed
func (o *orchestrator) EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	s, err := o.get(input.SessionID)
	if err != nil {
		return nil, err
	}

	// Inputs already holding the session finish before the feed is cleared,
	// and any that queue behind this see it ended.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return nil, errors.NotFoundf("session %s not found", input.SessionID)
	}
	s.ended = true

	o.mu.Lock()
	delete(o.sessions, input.SessionID)
	o.mu.Unlock()

	out, err := o.eventLog.Clear(ctx, &eventlog.ClearInput{SessionID: input.SessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to clear events")
	}

	slog.Info("Session ended", "session_id", input.SessionID, "events_cleared", out.Removed)

	return &EndSessionOutput{EventsCleared: out.Removed}, nil
}

// advance runs one cycle, records its feed entries and settles the outcome
// of the battle. Caller holds s.mu.
func (o *orchestrator) advance(ctx context.Context, s *session) ([]eventlog.Entry, error) {
	steps, err := s.pipeline.Cycle(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to advance turn")
	}

	var events []eventlog.Entry
	for _, step := range steps {
		turn := step.Transition.Turn
		resolved := step.Transition.From == engine.PhaseResolution && step.Transition.To == engine.PhasePlanning
		if resolved {
			events = append(events, s.captureObjectives(turn-1)...)
		}
		if step.Transition.Banner != "" {
			events = append(events, eventlog.Entry{Turn: turn, Message: step.Transition.Banner})
		}
		for _, out := range step.Outcomes {
			if out.Description == "" {
				continue
			}
			events = append(events, eventlog.Entry{
				Turn:      turn,
				Message:   out.Description,
				EntityID:  out.EntityID,
				Kind:      string(out.Kind),
				Completed: out.Completed,
			})
		}
		if resolved {
			slog.Info("Turn advanced", "session_id", s.id, "turn", turn)
		}
	}

	if winner, over := s.settle(); over {
		events = append(events, eventlog.Entry{
			Turn:    s.world.TurnIndex(),
			Message: fmt.Sprintf("=== Battle over: %s victorious ===", winner.DisplayName()),
		})
		slog.Info("Session finished", "session_id", s.id, "winner", winner, "turn", s.world.TurnIndex())
	}

	if err := o.record(ctx, s.id, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (o *orchestrator) record(ctx context.Context, sessionID string, events []eventlog.Entry) error {
	if len(events) == 0 {
		return nil
	}
	if _, err := o.eventLog.Append(ctx, &eventlog.AppendInput{SessionID: sessionID, Entries: events}); err != nil {
		return errors.Wrap(err, "failed to record events")
	}
	return nil
}

func (o *orchestrator) get(id string) (*session, error) {
	if id == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	s, ok := o.sessions[id]
	if !ok {
		return nil, errors.NotFoundf("session %s not found", id)
	}
	return s, nil
}

func (s *session) active() error {
	if s.ended {
		return errors.NotFoundf("session %s not found", s.id)
	}
	if s.status == StatusFinished {
		return errors.FailedPreconditionf("session %s is finished", s.id)
	}
	return nil
}

func (s *session) validateAction(action engine.Action) error {
	switch act := action.(type) {
	case engine.Move:
		if act.DX < -1 || act.DX > 1 || act.DY < -1 || act.DY > 1 || (act.DX == 0 && act.DY == 0) {
			return errors.InvalidArgument("move must be one step to an adjacent tile")
		}
		if act.TerrainCost < 0 {
			return errors.InvalidArgument("terrain cost must not be negative")
		}
	case engine.Shoot:
		if _, ok := s.battle.Soldier(act.TargetID); !ok {
			return errors.NotFoundf("target %s not found", act.TargetID)
		}
	case engine.ThrowGrenade:
		if !s.battle.InBounds(battle.Position{X: act.X, Y: act.Y}) {
			return errors.InvalidArgument("grenade target is off the battlefield")
		}
	}
	return nil
}

// captureObjectives runs the end-of-turn flag checks for the turn that just
// resolved
func (s *session) captureObjectives(turn int) []eventlog.Entry {
	messages, captured := s.battle.UpdateObjectives()

	events := make([]eventlog.Entry, 0, len(messages))
	for _, m := range messages {
		events = append(events, eventlog.Entry{Turn: turn, Message: m})
	}

	if captured && s.captured == "" {
		if victor, ok := s.battle.ObjectiveVictor(); ok {
			s.captured = victor
		}
	}
	return events
}

// settle finishes the session when the player is dead, one side holds every
// flag or a side is wiped out
func (s *session) settle() (battle.Faction, bool) {
	if s.status == StatusFinished {
		return s.winner, false
	}

	allies := s.battle.Living(battle.FactionAllies)
	central := s.battle.Living(battle.FactionCentralPowers)

	player, hasPlayer := s.battle.Soldier(s.playerID)
	switch {
	case hasPlayer && !player.Alive():
		if player.Faction == battle.FactionAllies {
			s.winner = battle.FactionCentralPowers
		} else {
			s.winner = battle.FactionAllies
		}
	case s.captured != "":
		s.winner = s.captured
	case allies == 0 && central > 0:
		s.winner = battle.FactionCentralPowers
	case central == 0 && allies > 0:
		s.winner = battle.FactionAllies
	default:
		return "", false
	}

	s.status = StatusFinished
	return s.winner, true
}

func (s *session) view() *SessionView {
	v := &SessionView{
		ID:         s.id,
		PlayerID:   s.playerID,
		Status:     s.status,
		Winner:     s.winner,
		Turn:       s.world.Snapshot(),
		Objectives: s.battle.Objectives(),
	}

	for _, soldier := range s.battle.Soldiers() {
		v.Soldiers = append(v.Soldiers, SoldierView{
			ID:        soldier.ID,
			Name:      soldier.Name,
			Faction:   soldier.Faction,
			Rank:      soldier.Rank,
			Player:    soldier.Player,
			Position:  soldier.Position,
			Facing:    soldier.Facing,
			Health:    soldier.Health.Current,
			MaxHealth: soldier.Health.Max,
			Weapon:    soldier.Weapon.Type,
			Ammo:      soldier.Weapon.Ammo,
			Alive:     soldier.Alive(),
		})
	}

	return v
}

func validateRoster(specs []battle.SoldierSpec, policy engine.OrderPolicy) (string, error) {
	vb := errors.NewValidationBuilder()

	var playerID string
	seen := make(map[string]bool, len(specs))
	for i, spec := range specs {
		field := fmt.Sprintf("Soldiers[%d]", i)
		if spec.ID == "" {
			vb.RequiredField(field + ".ID")
			continue
		}
		if seen[spec.ID] {
			vb.Fieldf(field+".ID", "duplicate soldier %s", spec.ID)
		}
		seen[spec.ID] = true

		if spec.Faction != battle.FactionAllies && spec.Faction != battle.FactionCentralPowers {
			vb.InvalidField(field+".Faction", "unknown faction")
		}
		if spec.Player {
			if playerID != "" {
				vb.InvalidField(field+".Player", "only one player soldier is allowed")
			}
			playerID = spec.ID
		}
	}
	if playerID == "" && policy == engine.OrderPlayerFirst {
		vb.Field("Soldiers", "player-first ordering needs a player soldier")
	}

	if err := vb.Build(); err != nil {
		return "", err
	}
	return playerID, nil
}
