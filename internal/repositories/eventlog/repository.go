// Package eventlog stores the per-session event feed: applied-action
// descriptions and phase banners, newest first, capped in length.
package eventlog

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=eventlogmock github.com/KirkDiggler/trenchturn/internal/repositories/eventlog Repository

// DefaultCapacity is the number of entries kept per session
const DefaultCapacity = 100

// Entry is one line of the feed
type Entry struct {
	// Turn the entry was written in
	Turn int `json:"turn"`

	// Message as shown to the player
	Message string `json:"message"`

	// EntityID and Kind name the acting entity and its action. Both are
	// empty for phase banners.
	EntityID string `json:"entity_id,omitempty"`
	Kind     string `json:"kind,omitempty"`

	// Completed is false for a banner or a locked action that only made progress
	Completed bool `json:"completed,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// AppendInput contains entries to add, oldest first
type AppendInput struct {
	SessionID string
	Entries   []Entry
}

// AppendOutput contains the feed length after the append
type AppendOutput struct {
	Total int
}

// RecentInput selects the newest entries of a session
type RecentInput struct {
	SessionID string
	// Limit caps the result; zero returns everything kept
	Limit int
}

// RecentOutput contains entries newest first
type RecentOutput struct {
	Entries []Entry
}

// ClearInput selects the session feed to drop
type ClearInput struct {
	SessionID string
}

// ClearOutput reports how many entries were dropped
type ClearOutput struct {
	Removed int
}

// Repository defines the interface for event feed storage
type Repository interface {
	// Append adds entries; the oldest are evicted past capacity
	Append(ctx context.Context, input *AppendInput) (*AppendOutput, error)

	// Recent returns the newest entries first. An unknown session has an
	// empty feed.
	Recent(ctx context.Context, input *RecentInput) (*RecentOutput, error)

	// Clear drops a session's feed
	Clear(ctx context.Context, input *ClearInput) (*ClearOutput, error)
}

const (
	errInputRequired  = "input is required"
	errSessionIDEmpty = "session ID cannot be empty"
	errNegativeLimit  = "limit cannot be negative"
)
