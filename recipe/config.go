package recipe

import (
	"fmt"

	"github.com/katalvlaran/tazone/cache"
	"github.com/katalvlaran/tazone/worker"
)

// Settings is the single validated configuration value threaded
// through component preparation, the cache and the worker pool:
// a flat struct rather than a functional-options API, since
// these three knobs have no sensible per-call override.
type Settings struct {
	// DisableClockReduction skips clockreduce.Reduce during component
	// preparation, trading a larger federation dimension for an exact
	// 1:1 correspondence between declared and compiled clocks.
	DisableClockReduction bool

	// CacheSize bounds the component cache's LRU capacity. Must be
	// positive.
	CacheSize int

	// ThreadCount bounds the worker pool's concurrency.
	// Must be positive.
	ThreadCount int
}

// DefaultSettings returns conservative defaults: clock reduction
// enabled, a small cache, and a single worker, so jobs run one at a time —
// the safest starting point for an embedding unsure of its workload.
func DefaultSettings() Settings {
	return Settings{CacheSize: 16, ThreadCount: 1}
}

// Validate rejects a non-positive CacheSize or ThreadCount; a
// negative/zero value for either has no sensible interpretation.
func (s Settings) Validate() error {
	if s.CacheSize <= 0 {
		return fmt.Errorf("recipe: cache_size must be positive, got %d", s.CacheSize)
	}
	if s.ThreadCount <= 0 {
		return fmt.Errorf("recipe: thread_count must be positive, got %d", s.ThreadCount)
	}
	return nil
}

// NewCache builds the component cache sized per s.CacheSize.
func (s Settings) NewCache() *cache.Cache {
	return cache.New(s.CacheSize)
}

// NewPool builds the query worker pool bounded per s.ThreadCount.
func (s Settings) NewPool() *worker.Pool {
	return worker.New(worker.Config{Concurrency: s.ThreadCount})
}
