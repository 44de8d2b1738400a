package storage

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// TestStore wraps a containerized store with cleanup
type TestStore struct {
	*RedisStore
	container *tcredis.RedisContainer
	client    *redis.Client
}

// SetupTestStore starts a Redis container and returns a connected store
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	connStr, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	opts, err := redis.ParseURL(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	client := redis.NewClient(opts)

	store := NewWithClient(client)
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test redis: %v", err)
	}

	return &TestStore{RedisStore: store, container: container, client: client}
}

// Cleanup closes the client and terminates the container
func (ts *TestStore) Cleanup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if ts.RedisStore != nil {
		ts.RedisStore.Close()
	}
	if ts.container != nil {
		if err := ts.container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	}
}

// Flush clears all keys for test isolation
func (ts *TestStore) Flush(t *testing.T) {
	t.Helper()
	if err := ts.client.FlushAll(context.Background()).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}
}
