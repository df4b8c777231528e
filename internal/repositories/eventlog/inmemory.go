package eventlog

import (
	"context"
	"sync"

	"github.com/KirkDiggler/trenchturn/internal/errors"
	"github.com/KirkDiggler/trenchturn/internal/pkg/clock"
)

// InMemoryConfig configures the in-memory repository
type InMemoryConfig struct {
	// Capacity defaults to DefaultCapacity
	Capacity int
	// Clock defaults to the real clock
	Clock clock.Clock
}

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu       sync.RWMutex
	capacity int
	clock    clock.Clock
	// newest first
	store map[string][]Entry
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemory creates a new in-memory repository
func NewInMemory(cfg *InMemoryConfig) *InMemoryRepository {
	if cfg == nil {
		cfg = &InMemoryConfig{}
	}

	r := &InMemoryRepository{
		capacity: cfg.Capacity,
		clock:    cfg.Clock,
		store:    make(map[string][]Entry),
	}
	if r.capacity <= 0 {
		r.capacity = DefaultCapacity
	}
	if r.clock == nil {
		r.clock = clock.New()
	}

	return r
}

// Append adds entries to the front of the feed
func (r *InMemoryRepository) Append(_ context.Context, input *AppendInput) (*AppendOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	feed := r.store[input.SessionID]
	for _, e := range input.Entries {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		feed = append([]Entry{e}, feed...)
	}
	if len(feed) > r.capacity {
		feed = feed[:r.capacity]
	}
	r.store[input.SessionID] = feed

	return &AppendOutput{Total: len(feed)}, nil
}

// Recent returns a copy of the newest entries
func (r *InMemoryRepository) Recent(_ context.Context, input *RecentInput) (*RecentOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Limit < 0 {
		return nil, errors.InvalidArgument(errNegativeLimit)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	feed := r.store[input.SessionID]
	n := len(feed)
	if input.Limit > 0 && input.Limit < n {
		n = input.Limit
	}

	entries := make([]Entry, n)
	copy(entries, feed[:n])

	return &RecentOutput{Entries: entries}, nil
}

// Clear drops a session's feed
func (r *InMemoryRepository) Clear(_ context.Context, input *ClearInput) (*ClearOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := len(r.store[input.SessionID])
	delete(r.store, input.SessionID)

	return &ClearOutput{Removed: removed}, nil
}
