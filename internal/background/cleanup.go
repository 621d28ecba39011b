package background

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper drops expired state and reports how many entries it removed.
// *auth.AttemptTracker implements it.
type Sweeper interface {
	Sweep() int
	Len() int
}

// CleanupManager periodically sweeps expired login-attempt records so the
// tracker does not grow with every identity that ever failed a login
type CleanupManager struct {
	sweeper  Sweeper
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(sweeper Sweeper, logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		sweeper:  sweeper,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or ctx is cancelled
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cm.runCleanup()
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup() {
	removed := cm.sweeper.Sweep()
	if removed > 0 {
		cm.logger.Info("expired login attempts swept",
			slog.Int("removed", removed),
			slog.Int("remaining", cm.sweeper.Len()),
		)
	}
}

// Stop signals the cleanup manager to stop. Safe to call more than once.
func (cm *CleanupManager) Stop() {
	cm.stopOnce.Do(func() { close(cm.stopCh) })
}
