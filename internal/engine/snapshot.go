package engine

import "time"

// EntitySnapshot is a read-only view of one entity's turn state
type EntitySnapshot struct {
	ID string
	// Type is the source entity's type, empty when spawned by ID alone
	Type          string
	Player        bool
	Ready         bool
	BaseDuration  time.Duration
	AvailableTime time.Duration
	SpentThisTurn time.Duration
	Debt          time.Duration
	Record        *RecordSnapshot
}

// RecordSnapshot is a copy of a committed record. Changing it has no effect
// on what the executor applies.
type RecordSnapshot struct {
	Action        Action
	Kind          ActionKind
	Description   string
	TimeCost      time.Duration
	Committed     bool
	Locked        bool
	TotalTime     time.Duration
	TimeCompleted time.Duration
	Progress      float64
	TurnCommitted int
}

// Snapshot is the rendering-facing view of a world
type Snapshot struct {
	Turn     int
	Phase    Phase
	Policy   OrderPolicy
	Entities []EntitySnapshot
}

// Snapshot copies the world's turn state
func (w *World) Snapshot() *Snapshot {
	snap := &Snapshot{
		Turn:     w.state.turnIndex,
		Phase:    w.state.phase,
		Policy:   w.state.policy,
		Entities: make([]EntitySnapshot, 0, len(w.entities)),
	}

	for _, e := range w.entities {
		es := EntitySnapshot{
			ID:            e.ID,
			Player:        e.Player,
			Ready:         w.state.IsReady(e.ID),
			BaseDuration:  e.Budget.BaseDuration,
			AvailableTime: e.Budget.AvailableTime(),
			SpentThisTurn: e.Budget.SpentThisTurn,
			Debt:          e.Budget.Debt,
		}
		if e.Source != nil {
			es.Type = e.Source.GetType()
		}
		es.Record = e.Record()
		snap.Entities = append(snap.Entities, es)
	}

	return snap
}

// Complete reports whether the record's effect has fired or can fire
func (r *RecordSnapshot) Complete() bool {
	return !r.Locked || r.TimeCompleted >= r.TotalTime
}

func (r *record) snapshot() *RecordSnapshot {
	return &RecordSnapshot{
		Action:        r.action,
		Kind:          r.action.Kind(),
		Description:   Describe(r.action),
		TimeCost:      r.timeCost,
		Committed:     r.committed,
		Locked:        r.locked,
		TotalTime:     r.totalTime,
		TimeCompleted: r.timeCompleted,
		Progress:      r.progress(),
		TurnCommitted: r.turnCommitted,
	}
}
