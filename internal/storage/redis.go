package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/trogers1052/wheel-tracker/internal/config"
	"github.com/trogers1052/wheel-tracker/internal/models"
	"github.com/trogers1052/wheel-tracker/internal/positions"
)

// positionsKey is the single key holding the serialized snapshot
const positionsKey = "wheel:positions"

// RedisStore persists the position snapshot as one JSON blob in a
// local Redis instance. It implements positions.Repository.
type RedisStore struct {
	client *redis.Client
	key    string
}

// New creates a RedisStore from configuration
func New(cfg config.RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisStore{client: client, key: positionsKey}
}

// NewWithClient wraps an existing client, used by tests
func NewWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, key: positionsKey}
}

// Ping verifies connectivity to the store
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Load reads the full position snapshot. A missing key yields
// positions.ErrNoSnapshot; an undecodable blob is an error so the
// caller can fall back to its seed set.
func (r *RedisStore) Load(ctx context.Context) ([]models.Position, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, positions.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read position snapshot: %w", err)
	}

	var ps []models.Position
	if err := json.Unmarshal(raw, &ps); err != nil {
		return nil, fmt.Errorf("failed to decode position snapshot: %w", err)
	}
	return ps, nil
}

// Save overwrites the full position snapshot
func (r *RedisStore) Save(ctx context.Context, ps []models.Position) error {
	raw, err := json.Marshal(ps)
	if err != nil {
		return fmt.Errorf("failed to encode position snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write position snapshot: %w", err)
	}
	return nil
}

// Close releases the underlying client
func (r *RedisStore) Close() error {
	return r.client.Close()
}
