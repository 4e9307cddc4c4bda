package departure

import (
	"context"
	"time"
)

// DefaultRefreshInterval matches the countdown refresh of the web client.
const DefaultRefreshInterval = 30 * time.Second

// Refresher recomputes a plan against a fresh "now" on a fixed interval so
// countdowns and status transitions track the passage of time.
type Refresher struct {
	interval time.Duration
	now      func() time.Time
}

// NewRefresher creates a refresher. Non-positive intervals use DefaultRefreshInterval.
func NewRefresher(interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{
		interval: interval,
		now:      time.Now,
	}
}

// WithClock returns a copy of the refresher reading "now" from the given clock.
func (r *Refresher) WithClock(now func() time.Time) *Refresher {
	return &Refresher{
		interval: r.interval,
		now:      now,
	}
}

// Run emits a plan immediately and then once per interval until ctx is done.
// It returns ctx.Err().
func (r *Refresher) Run(ctx context.Context, compute func(now time.Time) Plan, emit func(Plan)) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	emit(compute(r.now()))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			emit(compute(r.now()))
		}
	}
}
