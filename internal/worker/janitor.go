package worker

import (
	"context"
	"log/slog"
	"time"
)

// CachePruner drops expired entries from a cache.
type CachePruner interface {
	PruneCache() int
}

// CacheJanitor periodically prunes the projection cache.
type CacheJanitor struct {
	cache    CachePruner
	interval time.Duration
}

// NewCacheJanitor creates a new CacheJanitor.
func NewCacheJanitor(cache CachePruner, interval time.Duration) *CacheJanitor {
	return &CacheJanitor{cache: cache, interval: interval}
}

// Run starts the janitor loop. It blocks until the context is cancelled.
func (j *CacheJanitor) Run(ctx context.Context) {
	slog.Info("CacheJanitor: starting", "interval", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("CacheJanitor: shutting down")
			return
		case <-ticker.C:
			if n := j.cache.PruneCache(); n > 0 {
				slog.Debug("CacheJanitor: pruned expired projections", "count", n)
			}
		}
	}
}
