package board

import (
	"context"
	"sync"
	"time"
)

// DefaultSweepInterval is how often overdue tasks are looked for.
const DefaultSweepInterval = time.Second

// Sweeper runs a function once right away and then periodically until its
// context is cancelled. A run is scheduled only after the previous one
// returns, so runs never overlap.
type Sweeper struct {
	interval time.Duration
	fn       func(context.Context)
}

// NewSweeper creates a sweeper calling fn every interval. A non-positive
// interval falls back to DefaultSweepInterval.
func NewSweeper(interval time.Duration, fn func(context.Context)) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{interval: interval, fn: fn}
}

// Interval returns the delay between the end of one run and the start of the next.
func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

// Run blocks until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.fn(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.fn(ctx)
			timer.Reset(s.interval)
		}
	}
}

// Start runs the sweeper in its own goroutine. The returned stop function
// cancels it and waits for an in-flight run to finish; calling it more than
// once is safe.
func (s *Sweeper) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Run(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}
