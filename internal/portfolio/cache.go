package portfolio

import (
	"fmt"
	"sync"
	"time"

	"github.com/mtlprog/sipplan/internal/domain"
)

const maxCacheEntries = 50_000

type cacheEntry struct {
	result    domain.ProjectionResult
	expiresAt time.Time
}

type projectionCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newProjectionCache(ttl time.Duration) *projectionCache {
	return &projectionCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// cacheKey covers every input that changes the engine output; the category does not.
// %v prints the shortest representation that round-trips, so distinct floats never collide.
func cacheKey(s domain.ContributionStream, p domain.StepUpPolicy, months int) string {
	return fmt.Sprintf("%v|%v|%v|%s|%d", s.MonthlyAmount, s.AnnualReturnRatePercent, p.StepUpPercent, p.Frequency, months)
}

func (c *projectionCache) get(key string) (domain.ProjectionResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return domain.ProjectionResult{}, false
	}
	return entry.result, true
}

func (c *projectionCache) set(key string, result domain.ProjectionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if len(c.entries) >= maxCacheEntries {
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
		if len(c.entries) >= maxCacheEntries {
			clear(c.entries)
		}
	}

	c.entries[key] = cacheEntry{
		result:    result,
		expiresAt: now.Add(c.ttl),
	}
}

// prune drops entries expired at now and reports how many were removed.
func (c *projectionCache) prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *projectionCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
