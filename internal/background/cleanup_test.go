package background

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BradenHooton/emporium/internal/auth"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return 1
}

func (s *countingSweeper) Len() int { return 0 }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanupManager_SweepsOnInterval(t *testing.T) {
	sweeper := &countingSweeper{}
	cm := NewCleanupManager(sweeper, discardLogger(), 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		cm.Start(context.Background())
		close(done)
	}()

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cm.Stop()
	cm.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup manager did not stop")
	}
}

func TestCleanupManager_StopsOnContextCancel(t *testing.T) {
	cm := NewCleanupManager(&countingSweeper{}, discardLogger(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		cm.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup manager ignored context cancellation")
	}
}

func TestCleanupManager_RemovesExpiredAttempts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker := auth.NewAttemptTracker(auth.AttemptConfig{Now: func() time.Time { return now }})

	tracker.RecordFailure("old@shop.example")
	now = now.Add(31 * time.Minute)
	tracker.RecordFailure("fresh@shop.example")

	NewCleanupManager(tracker, discardLogger(), time.Hour).runCleanup()

	assert.Equal(t, 1, tracker.Len())
	assert.False(t, tracker.IsLocked("fresh@shop.example").Locked)
}
