package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/BradenHooton/emporium/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestTimingDelay_WaitFrom_AppliesFloorWithJitter(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   100,
		RandomDelayMs: 50,
	})
	startTime := time.Now()

	timing.WaitFrom(context.Background(), startTime)

	elapsed := time.Since(startTime)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 250*time.Millisecond)
}

func TestTimingDelay_WaitFrom_AdjustsForElapsedTime(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 100})
	startTime := time.Now()

	time.Sleep(50 * time.Millisecond)
	timing.WaitFrom(context.Background(), startTime)

	elapsed := time.Since(startTime)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 140*time.Millisecond)
}

func TestTimingDelay_WaitFrom_NoWaitIfAlreadyExceeded(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 50})
	startTime := time.Now()

	time.Sleep(100 * time.Millisecond)
	timing.WaitFrom(context.Background(), startTime)

	assert.Less(t, time.Since(startTime), 130*time.Millisecond)
}

func TestTimingDelay_WaitFrom_ReturnsOnCancel(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 5000})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	startTime := time.Now()
	timing.WaitFrom(ctx, startTime)

	assert.Less(t, time.Since(startTime), time.Second)
}

func TestTimingDelay_Enabled(t *testing.T) {
	var nilDelay *auth.TimingDelay
	assert.False(t, nilDelay.Enabled())
	assert.False(t, auth.NewTimingDelay(auth.TimingConfig{}).Enabled())
	assert.True(t, auth.NewTimingDelay(auth.TimingConfig{RandomDelayMs: 10}).Enabled())
}
