package cache

import (
	"container/list"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/internal/obslog"
)

// ErrNotFound is returned by Release for a handle the cache does not
// recognize (already released, or never checked out).
var ErrNotFound = errors.New("cache: unknown handle")

// Key identifies a cached component: the user that owns it and a
// content hash of its declaration (computed by the caller, typically
// over the component's source text).
type Key struct {
	UserID string
	Hash   string
}

func (k Key) flightKey() string { return k.UserID + "/" + k.Hash }

// BuildFunc produces the component a cache miss should populate.
type BuildFunc func() (*component.Component, error)

// Handle is the token a checkout returns; pass it to Release when the
// caller is done with the checked-out clone.
type Handle string

type entry struct {
	key      Key
	value    *component.Component
	refCount int
	elem     *list.Element
}

// Cache is a reference-counted, LRU-bounded component store. The zero
// value is not usable; construct with New.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	handles map[Handle]Key
	lru     *list.List
	flight  singleflight.Group
	maxSize int
}

// New builds a Cache that evicts its least-recently-used entry once
// more than maxSize distinct keys are resident and unreferenced. A
// non-positive maxSize means unbounded.
func New(maxSize int) *Cache {
	return &Cache{
		entries: make(map[Key]*entry),
		handles: make(map[Handle]Key),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// Checkout returns a private clone of the component cached under key,
// building it via build on a miss. Concurrent misses on the same key
// share one build call. The returned Handle must be passed to Release
// exactly once.
func (c *Cache) Checkout(key Key, build BuildFunc) (*component.Component, Handle, error) {
	logger := obslog.Named("cache")

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.refCount++
		c.lru.MoveToFront(e.elem)
		c.mu.Unlock()
		logger.Debug().Str("user", key.UserID).Str("hash", key.Hash).Msg("cache hit")
		return e.value.Clone(), c.track(key), nil
	}
	c.mu.Unlock()

	built, err, _ := c.flight.Do(key.flightKey(), func() (interface{}, error) {
		return build()
	})
	if err != nil {
		return nil, "", fmt.Errorf("cache: build %s: %w", key.flightKey(), err)
	}
	comp := built.(*component.Component)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		// another goroutine inserted it first while we were unlocked.
		e.refCount++
		c.lru.MoveToFront(e.elem)
		return e.value.Clone(), c.track(key), nil
	}
	e := &entry{key: key, value: comp, refCount: 1}
	e.elem = c.lru.PushFront(key)
	c.entries[key] = e
	c.evictLocked(logger)
	logger.Debug().Str("user", key.UserID).Str("hash", key.Hash).Msg("cache miss, built")
	return comp.Clone(), c.track(key), nil
}

func (c *Cache) track(key Key) Handle {
	h := Handle(uuid.NewString())
	c.handles[h] = key
	return h
}

// Release decrements the reference count for the key a handle was
// checked out under, making the entry eligible for eviction once it
// reaches zero.
func (c *Cache) Release(h Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, ok := c.handles[h]
	if !ok {
		return ErrNotFound
	}
	delete(c.handles, h)
	if e, ok := c.entries[key]; ok && e.refCount > 0 {
		e.refCount--
	}
	return nil
}

// evictLocked removes least-recently-used, unreferenced entries until
// the cache is back at or under maxSize, or no evictable entry
// remains. Called with c.mu held.
func (c *Cache) evictLocked(logger zerolog.Logger) {
	if c.maxSize <= 0 {
		return
	}
	for elem := c.lru.Back(); c.lru.Len() > c.maxSize && elem != nil; {
		prev := elem.Prev()
		key := elem.Value.(Key)
		if e := c.entries[key]; e.refCount == 0 {
			c.lru.Remove(e.elem)
			delete(c.entries, key)
			logger.Debug().Str("user", key.UserID).Str("hash", key.Hash).Msg("evicted")
		}
		elem = prev
	}
}

// Len returns the number of distinct keys currently resident.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
