package routing

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/hrygo/traveltime/store/cache"
)

// CachingEstimator memoizes estimates and collapses concurrent identical lookups.
// Failures are never cached.
type CachingEstimator struct {
	next  Estimator
	cache *cache.FIFO[string, Estimate]
	group singleflight.Group
}

// NewCachingEstimator wraps next. A nil cache selects the default FIFO.
func NewCachingEstimator(next Estimator, c *cache.FIFO[string, Estimate]) *CachingEstimator {
	if c == nil {
		c = cache.NewFIFO[string, Estimate](0, 0)
	}
	return &CachingEstimator{next: next, cache: c}
}

// Estimate implements Estimator. Cache hits are flagged with Cached.
func (c *CachingEstimator) Estimate(ctx context.Context, req Request) (Estimate, error) {
	if err := req.Validate(); err != nil {
		return Estimate{}, err
	}

	key := req.key()
	if est, ok := c.cache.Get(key); ok {
		est.Cached = true
		return est, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		est, err := c.next.Estimate(ctx, req)
		if err != nil {
			return Estimate{}, err
		}
		c.cache.Set(key, est)
		return est, nil
	})
	if err != nil {
		return Estimate{}, err
	}
	return v.(Estimate), nil
}

var _ Estimator = (*CachingEstimator)(nil)
