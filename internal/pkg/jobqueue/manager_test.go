package jobqueue

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/estatepilot/estatepilot/internal/pkg/cache"
)

// A stop/start cycle must not strand a worker: Stop leaves the closed stop
// channel in place and Start recreates it, so Stop's wg.Wait always returns.
func TestManagerRestart(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	m := &Manager{
		queue:  NewQueue(1),
		stopCh: make(chan struct{}),
	}

	for cycle := 0; cycle < 2; cycle++ {
		m.Start()
		if !m.IsRunning() {
			t.Fatalf("cycle %d: manager should be running after Start", cycle)
		}

		m.Stop()
		if m.IsRunning() {
			t.Fatalf("cycle %d: manager should be stopped after Stop", cycle)
		}
	}
}
