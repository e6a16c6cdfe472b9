// SPDX-License-Identifier: MIT

// Package cache provides timestamped key/value stores for upstream snapshots.
//
// Stores never expire entries on their own: every entry carries the time it
// was stored and callers decide whether it is still fresh. This lets a
// component fall back to a stale value when its upstream is down.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Entry is a cached value stamped with its store time.
type Entry[T any] struct {
	StoredAt time.Time `json:"stored_at"`
	Value    T         `json:"value"`
}

// Fresh reports whether the entry is younger than ttl at now.
func (e Entry[T]) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.StoredAt) < ttl
}

// Store keeps the latest Entry per key.
type Store[T any] interface {
	// Get returns the entry stored under key, if any.
	Get(ctx context.Context, key string) (Entry[T], bool)
	// Set replaces the entry stored under key.
	Set(ctx context.Context, key string, e Entry[T])
	// Stats returns store statistics.
	Stats() Stats
}

// Stats holds cache performance metrics.
type Stats struct {
	Hits        int64 // Number of successful Get operations
	Misses      int64 // Number of Get operations that found nothing
	Sets        int64 // Number of Set operations
	CurrentSize int   // Current number of cached entries
}

type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

func (c *counters) snapshot(size int) Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		CurrentSize: size,
	}
}

// MemoryStore is an in-process Store.
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[T]
	stats   counters
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{entries: make(map[string]Entry[T])}
}

// Get retrieves an entry from the store.
func (s *MemoryStore[T]) Get(_ context.Context, key string) (Entry[T], bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		s.stats.misses.Add(1)
		return Entry[T]{}, false
	}
	s.stats.hits.Add(1)
	return e, true
}

// Set stores an entry.
func (s *MemoryStore[T]) Set(_ context.Context, key string, e Entry[T]) {
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	s.stats.sets.Add(1)
}

// Stats returns store statistics.
func (s *MemoryStore[T]) Stats() Stats {
	s.mu.RLock()
	n := len(s.entries)
	s.mu.RUnlock()
	return s.stats.snapshot(n)
}
