// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[[]string]()

	_, ok := s.Get(ctx, "missing")
	assert.False(t, ok)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Set(ctx, "k", Entry[[]string]{StoredAt: now, Value: []string{"a", "b"}})

	e, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, now, e.StoredAt)
	assert.Equal(t, []string{"a", "b"}, e.Value)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[int]()
	s.Set(ctx, "k", Entry[int]{Value: 1})
	s.Set(ctx, "k", Entry[int]{Value: 2})

	e, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 2, e.Value)
	assert.Equal(t, 1, s.Stats().CurrentSize)
}

func TestMemoryStore_Stats(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[int]()
	s.Set(ctx, "a", Entry[int]{Value: 1})
	s.Get(ctx, "a")
	s.Get(ctx, "a")
	s.Get(ctx, "b")

	assert.Equal(t, Stats{Hits: 2, Misses: 1, Sets: 1, CurrentSize: 1}, s.Stats())
}

func TestEntryFresh(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := Entry[int]{StoredAt: now}

	assert.True(t, e.Fresh(now, time.Minute))
	assert.True(t, e.Fresh(now.Add(59*time.Second), time.Minute))
	assert.False(t, e.Fresh(now.Add(time.Minute), time.Minute))
	assert.False(t, e.Fresh(now.Add(time.Hour), time.Minute))
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[int]()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", id, j%5)
				s.Set(ctx, key, Entry[int]{Value: j})
				s.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, s.Stats().CurrentSize)
}

func BenchmarkMemoryStore_Get(b *testing.B) {
	ctx := context.Background()
	s := NewMemoryStore[int]()
	s.Set(ctx, "k", Entry[int]{Value: 1})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Get(ctx, "k")
	}
}
