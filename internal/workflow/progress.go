package workflow

import (
	"context"
	"time"
)

// ProgressSource produces the percentage stream for the processing phase.
// Implementations must emit monotonically non-decreasing values and
// eventually emit 100 unless the context is cancelled or conversion fails.
// sourceName identifies the file being converted; synthetic sources may
// ignore it.
type ProgressSource interface {
	Run(ctx context.Context, sourceName string, emit func(percent int)) error
}

// Ticker is the default synthetic ProgressSource. It stands in for real
// server-side progress: the converter API only answers "done or not", so the
// client advances a fixed step on a fixed cadence, capped at 100.
type Ticker struct {
	step     int
	interval time.Duration
}

// NewTicker creates a Ticker advancing by step percent every interval.
func NewTicker(step int, interval time.Duration) *Ticker {
	if step <= 0 {
		step = 5
	}
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	return &Ticker{step: step, interval: interval}
}

// Run emits ticks until 100 is reached or ctx is cancelled.
func (t *Ticker) Run(ctx context.Context, _ string, emit func(percent int)) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	percent := 0
	for percent < 100 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			percent += t.step
			if percent > 100 {
				percent = 100
			}
			emit(percent)
		}
	}
	return nil
}
