package eventlog

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/trenchturn/internal/errors"
	"github.com/KirkDiggler/trenchturn/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/trenchturn/internal/redis"
)

const (
	// Key pattern: eventlog:{session_id}, a list with the newest entry at index 0
	feedKeyPrefix = "eventlog:"
	defaultTTL    = 24 * time.Hour
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
	// Capacity defaults to DefaultCapacity
	Capacity int
	// TTL is refreshed on every append; defaults to 24h
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Capacity < 0 {
		vb.InvalidField("Capacity", "must not be negative")
	}
	if c.TTL < 0 {
		vb.InvalidField("TTL", "must not be negative")
	}

	return vb.Build()
}

type redisRepository struct {
	client   redisclient.Client
	clock    clock.Clock
	capacity int
	ttl      time.Duration
}

// NewRedisRepository creates a new Redis repository for event feeds
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	r := &redisRepository{
		client:   cfg.Client,
		clock:    cfg.Clock,
		capacity: cfg.Capacity,
		ttl:      cfg.TTL,
	}
	if r.capacity == 0 {
		r.capacity = DefaultCapacity
	}
	if r.ttl == 0 {
		r.ttl = defaultTTL
	}

	return r, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Append pushes entries to the head of the list, trims it and refreshes the TTL
func (r *redisRepository) Append(ctx context.Context, input *AppendInput) (*AppendOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	key := r.buildKey(input.SessionID)
	if len(input.Entries) == 0 {
		total, err := r.client.LLen(ctx, key).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read feed length from Redis")
		}
		return &AppendOutput{Total: int(total)}, nil
	}

	now := r.clock.Now()
	values := make([]any, 0, len(input.Entries))
	for _, e := range input.Entries {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		entryJSON, err := json.Marshal(e)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal entry")
		}
		values = append(values, entryJSON)
	}

	var length *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, values...)
		pipe.LTrim(ctx, key, 0, int64(r.capacity-1))
		pipe.Expire(ctx, key, r.ttl)
		length = pipe.LLen(ctx, key)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to append to feed in Redis")
	}

	return &AppendOutput{Total: int(length.Val())}, nil
}

// Recent reads the head of the list
func (r *redisRepository) Recent(ctx context.Context, input *RecentInput) (*RecentOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Limit < 0 {
		return nil, errors.InvalidArgument(errNegativeLimit)
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}

	raw, err := r.client.LRange(ctx, r.buildKey(input.SessionID), 0, stop).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.Wrapf(err, "failed to read feed from Redis")
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal entry")
		}
		entries = append(entries, e)
	}

	return &RecentOutput{Entries: entries}, nil
}

// Clear deletes the list
func (r *redisRepository) Clear(ctx context.Context, input *ClearInput) (*ClearOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	key := r.buildKey(input.SessionID)

	var length *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		length = pipe.LLen(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete feed from Redis")
	}

	return &ClearOutput{Removed: int(length.Val())}, nil
}

// buildKey creates the Redis key for a session feed
func (r *redisRepository) buildKey(sessionID string) string {
	return feedKeyPrefix + sessionID
}
