package auth

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"time"
)

// TimingConfig holds the response floor applied to failed logins
type TimingConfig struct {
	BaseDelayMs   int // minimum total duration in milliseconds
	RandomDelayMs int // extra random jitter in milliseconds
}

// TimingDelay pads a login outcome to a minimum duration so that
// failure responses do not separate by how far the attempt got.
type TimingDelay struct {
	config TimingConfig
	sleep  func(ctx context.Context, d time.Duration)
}

// NewTimingDelay creates a new TimingDelay instance
func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{
		config: config,
		sleep:  sleepContext,
	}
}

// Enabled reports whether any padding is configured
func (td *TimingDelay) Enabled() bool {
	return td != nil && (td.config.BaseDelayMs > 0 || td.config.RandomDelayMs > 0)
}

// cryptoRandIntn returns a random number in [0, max) from crypto/rand
func cryptoRandIntn(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return 0, err
	}

	randomValue := binary.BigEndian.Uint64(randomBytes)
	return int(randomValue % uint64(max)), nil
}

func (td *TimingDelay) target() time.Duration {
	delay := time.Duration(td.config.BaseDelayMs) * time.Millisecond
	if td.config.RandomDelayMs > 0 {
		if jitter, err := cryptoRandIntn(td.config.RandomDelayMs); err == nil {
			delay += time.Duration(jitter) * time.Millisecond
		}
	}
	return delay
}

// WaitFrom sleeps until at least base + jitter has passed since start.
// Nothing happens if the work already took longer. Returns early if ctx is cancelled.
func (td *TimingDelay) WaitFrom(ctx context.Context, start time.Time) {
	elapsed := time.Since(start)
	if target := td.target(); elapsed < target {
		td.sleep(ctx, target-elapsed)
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
