package counter

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/estatepilot/estatepilot/internal/pkg/cache"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return mr
}

func TestAddEngagementEventsAccumulates(t *testing.T) {
	setupRedis(t)

	if err := AddEngagementEvents(7, 1); err != nil {
		t.Fatalf("AddEngagementEvents: %v", err)
	}
	if err := AddEngagementEvents(7, 2); err != nil {
		t.Fatalf("AddEngagementEvents: %v", err)
	}
	if err := AddEngagementEvents(9, 1); err != nil {
		t.Fatalf("AddEngagementEvents: %v", err)
	}

	ctx := context.Background()
	data, err := cache.GetClient().HGetAll(ctx, engagementKey).Result()
	if err != nil {
		t.Fatalf("HGetAll: %v", err)
	}
	if data["7"] != "3" {
		t.Fatalf("expected buyer 7 pending count 3, got %q", data["7"])
	}
	if data["9"] != "1" {
		t.Fatalf("expected buyer 9 pending count 1, got %q", data["9"])
	}
}

func TestAddEngagementEventsZeroIsNoop(t *testing.T) {
	mr := setupRedis(t)

	if err := AddEngagementEvents(7, 0); err != nil {
		t.Fatalf("AddEngagementEvents: %v", err)
	}
	if mr.Exists(engagementKey) {
		t.Fatalf("zero increment must not create the hash")
	}
}

func TestFlushAllWithNothingPending(t *testing.T) {
	setupRedis(t)

	// No pending hash: the RENAME drain finds no key and the flush is a
	// no-op that never touches the database.
	if err := FlushAll(); err != nil {
		t.Fatalf("FlushAll on empty counters: %v", err)
	}
}
