package engine

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/trenchturn/internal/errors"
)

// ReasonAlreadyCommitted is the meta reason on AlreadyCommitted errors
const ReasonAlreadyCommitted = "already_committed"

// Entity is an acting participant: anything with a time budget
type Entity struct {
	ID     string
	Player bool
	Budget *TimeBudget

	// Source is the simulation object this entity acts for, if any
	Source core.Entity

	record *record
}

// Record returns a copy of the entity's current record, or nil
func (e *Entity) Record() *RecordSnapshot {
	if e.record == nil {
		return nil
	}
	return e.record.snapshot()
}

// WorldConfig configures a World
type WorldConfig struct {
	OrderPolicy OrderPolicy
	// Readiness is required for OrderInitiativeBased and ignored otherwise
	Readiness ReadinessFunc
	// BaseDuration is the default per-turn allotment for spawned entities
	BaseDuration time.Duration
	// MaxDebt caps each entity's debt; zero leaves it unbounded
	MaxDebt time.Duration
}

// Validate validates the configuration
func (c *WorldConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("OrderPolicy", string(c.OrderPolicy), OrderPolicyNames(), vb)
	if c.OrderPolicy == OrderInitiativeBased && c.Readiness == nil {
		vb.Field("Readiness", "is required for initiative ordering")
	}
	if c.BaseDuration < 0 {
		vb.InvalidField("BaseDuration", "must not be negative")
	}
	if c.MaxDebt < 0 {
		vb.InvalidField("MaxDebt", "must not be negative")
	}

	return vb.Build()
}

// World is the single-owner turn context threaded through the pipeline
type World struct {
	state  TurnState
	policy Policy

	baseDuration time.Duration
	maxDebt      time.Duration

	// entities in spawn order; executor iteration follows it
	entities []*Entity
	index    map[string]*Entity

	// killed during the current Execution, retired at Resolution
	casualties map[string]struct{}
}

// NewWorld creates a world at turn 1, Planning
func NewWorld(cfg *WorldConfig) (*World, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	policy, err := NewPolicy(cfg.OrderPolicy, cfg.Readiness)
	if err != nil {
		return nil, err
	}

	return &World{
		state:        newTurnState(cfg.OrderPolicy),
		policy:       policy,
		baseDuration: ClampBaseDuration(cfg.BaseDuration),
		maxDebt:      cfg.MaxDebt,
		index:        make(map[string]*Entity),
		casualties:   make(map[string]struct{}),
	}, nil
}

// SpawnInput describes a new acting entity
type SpawnInput struct {
	// ID defaults to Entity.GetID() when Entity is set
	ID     string
	Entity core.Entity
	Player bool
	// BaseDuration overrides the world default when non-zero
	BaseDuration time.Duration
}

// Spawn adds an entity with a fresh budget. At most one player is allowed.
func (w *World) Spawn(input *SpawnInput) (*Entity, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	id := input.ID
	if input.Entity != nil {
		switch {
		case id == "":
			id = input.Entity.GetID()
		case id != input.Entity.GetID():
			return nil, errors.InvalidArgumentf("entity ID %s does not match %s %s",
				id, input.Entity.GetType(), input.Entity.GetID())
		}
	}
	if id == "" {
		return nil, errors.InvalidArgument("entity ID is required")
	}
	if _, exists := w.index[id]; exists {
		return nil, errors.AlreadyExistsf("entity %s already exists", id)
	}
	if input.Player && w.player() != nil {
		return nil, errors.FailedPrecondition("world already has a player")
	}

	base := w.baseDuration
	if input.BaseDuration != 0 {
		base = input.BaseDuration
	}
	budget := NewTimeBudget(base)
	budget.MaxDebt = w.maxDebt

	e := &Entity{ID: id, Player: input.Player, Budget: budget, Source: input.Entity}
	w.entities = append(w.entities, e)
	w.index[e.ID] = e

	return e, nil
}

// Commit queues an action for an entity and charges its ledger.
// Only one record per entity is allowed and it cannot be withdrawn. The
// returned snapshot is a copy; the stored record is immutable from outside.
func (w *World) Commit(entityID string, action Action, opts CommitOptions) (*RecordSnapshot, error) {
	if action == nil {
		return nil, errors.InvalidArgument("action is required")
	}
	if w.state.phase != PhasePlanning {
		return nil, errors.FailedPreconditionf("cannot commit during %s", w.state.phase)
	}

	e, ok := w.index[entityID]
	if !ok {
		return nil, errors.NotFoundf("entity %s not found", entityID)
	}
	if e.record != nil {
		return nil, errors.AlreadyExistsf("entity %s already committed %s", entityID, e.record.action.Kind()).
			WithMeta("entity_id", entityID).
			WithMeta("reason", ReasonAlreadyCommitted)
	}

	cost := opts.Cost
	if cost <= 0 {
		cost = BaseCost(action)
	}

	rec := &record{
		action:        action,
		timeCost:      cost,
		committed:     true,
		turnCommitted: w.state.turnIndex,
	}
	if opts.MultiTurn {
		rec.locked = true
		rec.totalTime = cost
	}

	e.record = rec
	e.Budget.Consume(cost)

	return rec.snapshot(), nil
}

// IsAlreadyCommitted reports whether err is a rejected second commit
func IsAlreadyCommitted(err error) bool {
	if !errors.IsAlreadyExists(err) {
		return false
	}
	reason, _ := errors.GetMeta(err)["reason"].(string)
	return reason == ReasonAlreadyCommitted
}

// MarkReady adds an entity to the ready set for this Planning phase
func (w *World) MarkReady(entityID string) error {
	if w.state.phase != PhasePlanning {
		return errors.FailedPreconditionf("cannot mark ready during %s", w.state.phase)
	}
	if _, ok := w.index[entityID]; !ok {
		return errors.NotFoundf("entity %s not found", entityID)
	}

	w.state.ready[entityID] = struct{}{}
	return nil
}

// Retire removes an entity immediately, dropping its record and readiness
func (w *World) Retire(entityID string) error {
	if _, ok := w.index[entityID]; !ok {
		return errors.NotFoundf("entity %s not found", entityID)
	}
	w.remove(entityID)
	return nil
}

// Entity looks up a live entity
func (w *World) Entity(id string) (*Entity, bool) {
	e, ok := w.index[id]
	return e, ok
}

// Entities returns live entities in spawn order
func (w *World) Entities() []*Entity {
	out := make([]*Entity, len(w.entities))
	copy(out, w.entities)
	return out
}

// Player returns the player entity, if any
func (w *World) Player() (*Entity, bool) {
	p := w.player()
	return p, p != nil
}

// Phase returns the current phase
func (w *World) Phase() Phase { return w.state.phase }

// TurnIndex returns the current turn index
func (w *World) TurnIndex() int { return w.state.turnIndex }

// IsReady reports whether an entity is in the ready set
func (w *World) IsReady(id string) bool { return w.state.IsReady(id) }

// State exposes the turn state for reading
func (w *World) State() *TurnState { return &w.state }

// Policy returns the active turn-order policy
func (w *World) Policy() Policy { return w.policy }

// IsCasualty reports whether an entity died during the current Execution
func (w *World) IsCasualty(id string) bool {
	_, ok := w.casualties[id]
	return ok
}

func (w *World) player() *Entity {
	for _, e := range w.entities {
		if e.Player {
			return e
		}
	}
	return nil
}

func (w *World) markCasualty(id string) {
	if _, ok := w.index[id]; ok {
		w.casualties[id] = struct{}{}
	}
}

func (w *World) remove(id string) {
	delete(w.index, id)
	delete(w.state.ready, id)
	delete(w.casualties, id)

	kept := w.entities[:0]
	for _, e := range w.entities {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	w.entities = kept
}
