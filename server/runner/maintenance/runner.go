package maintenance

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is how often idle state is swept.
const DefaultInterval = time.Minute

// Pruner drops idle state and reports how many entries were removed.
type Pruner interface {
	Prune() int
}

// PruneFunc adapts a function to Pruner.
type PruneFunc func() int

func (f PruneFunc) Prune() int {
	return f()
}

// Runner periodically sweeps idle rate limiter buckets and expired route cache entries.
type Runner struct {
	pruners  map[string]Pruner
	interval time.Duration
}

// NewRunner creates a maintenance runner. Non-positive intervals use DefaultInterval.
func NewRunner(interval time.Duration) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Runner{
		pruners:  make(map[string]Pruner),
		interval: interval,
	}
}

// Register adds a named pruner. It must be called before Run.
func (r *Runner) Register(name string, p Pruner) *Runner {
	r.pruners[name] = p
	return r
}

// Run starts the background task and blocks until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			slog.Info("maintenance runner stopped")
			return
		}
	}
}

// RunOnce sweeps every registered pruner once and returns the removed counts by name.
func (r *Runner) RunOnce(ctx context.Context) map[string]int {
	removed := make(map[string]int, len(r.pruners))
	for name, p := range r.pruners {
		if ctx.Err() != nil {
			return removed
		}
		n := p.Prune()
		removed[name] = n
		if n > 0 {
			slog.Debug("maintenance sweep", "target", name, "removed", n)
		}
	}
	return removed
}
