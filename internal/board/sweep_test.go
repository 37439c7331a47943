package board

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSweeper_RunsImmediatelyAndPeriodically(t *testing.T) {
	var calls atomic.Int32
	s := NewSweeper(5*time.Millisecond, func(context.Context) {
		calls.Add(1)
	})

	stop := s.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	stop()

	if calls.Load() < 3 {
		t.Fatalf("calls = %d, want at least 3", calls.Load())
	}

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != after {
		t.Errorf("sweeper ran after stop: %d -> %d", after, calls.Load())
	}

	// A second stop is a no-op.
	stop()
}

func TestSweeper_NeverOverlaps(t *testing.T) {
	var running, overlaps, calls atomic.Int32
	s := NewSweeper(time.Millisecond, func(context.Context) {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(3 * time.Millisecond)
		running.Add(-1)
		calls.Add(1)
	})

	stop := s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	stop()

	if overlaps.Load() != 0 {
		t.Errorf("overlapping runs = %d", overlaps.Load())
	}
	if calls.Load() == 0 {
		t.Error("sweeper never ran")
	}
}

func TestSweeper_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	NewSweeper(time.Millisecond, func(context.Context) { calls.Add(1) }).Run(ctx)

	if calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", calls.Load())
	}
}

func TestNewSweeper_DefaultInterval(t *testing.T) {
	if got := NewSweeper(0, func(context.Context) {}).Interval(); got != DefaultSweepInterval {
		t.Errorf("Interval() = %v, want %v", got, DefaultSweepInterval)
	}
}
