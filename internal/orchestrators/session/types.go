package session

import (
	"time"

	"github.com/KirkDiggler/trenchturn/internal/battle"
	"github.com/KirkDiggler/trenchturn/internal/engine"
	"github.com/KirkDiggler/trenchturn/internal/repositories/eventlog"
)

// Status of a session
type Status string

// Session statuses
const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// SoldierView is the rendering view of one soldier
type SoldierView struct {
	ID        string
	Name      string
	Faction   battle.Faction
	Rank      battle.Rank
	Player    bool
	Position  battle.Position
	Facing    battle.Facing
	Health    int
	MaxHealth int
	Weapon    battle.WeaponType
	Ammo      int
	Alive     bool
}

// SessionView is a session as the rendering layer sees it
type SessionView struct {
	ID       string
	PlayerID string
	Status   Status
	// Winner is set once the session is finished
	Winner     battle.Faction
	Turn       *engine.Snapshot
	Soldiers   []SoldierView
	Objectives []battle.Objective
}

// StartSessionInput configures a new battle. Zero values use the
// orchestrator defaults; no soldiers means the default skirmish, which
// brings its own flags unless Objectives is set.
type StartSessionInput struct {
	OrderPolicy string
	TurnBudget  time.Duration
	Soldiers    []battle.SoldierSpec
	Objectives  []battle.ObjectiveSpec
}

// StartSessionOutput contains the new session
type StartSessionOutput struct {
	Session *SessionView
	Events  []eventlog.Entry
}

// CommitInput queues one action
type CommitInput struct {
	SessionID string
	EntityID  string
	Action    engine.Action
	// MultiTurn locks the action until its cost has elapsed in execution
	MultiTurn bool
}

// CommitOutput reports the accepted record and whatever the pipeline did
type CommitOutput struct {
	Record  *engine.RecordSnapshot
	Session *SessionView
	// Events written while processing this input, oldest first
	Events []eventlog.Entry
}

// MarkReadyInput signals that an entity is done planning
type MarkReadyInput struct {
	SessionID string
	EntityID  string
}

// MarkReadyOutput reports the session after processing
type MarkReadyOutput struct {
	Session *SessionView
	Events  []eventlog.Entry
}

// GetSnapshotInput selects a session
type GetSnapshotInput struct {
	SessionID string
}

// GetSnapshotOutput contains the session view
type GetSnapshotOutput struct {
	Session *SessionView
}

// ListEventsInput selects a session feed
type ListEventsInput struct {
	SessionID string
	Limit     int
}

// ListEventsOutput contains entries newest first
type ListEventsOutput struct {
	Entries []eventlog.Entry
}

// EndSessionInput selects a session to drop
type EndSessionInput struct {
	SessionID string
}

// EndSessionOutput reports cleanup
type EndSessionOutput struct {
	EventsCleared int
}
