// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package channels

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/matchcast/internal/cache"
)

type fakeSource struct {
	key   string
	calls atomic.Int32
	fetch func(ctx context.Context) ([]Channel, error)
}

func (f *fakeSource) Kind() string     { return "fake" }
func (f *fakeSource) CacheKey() string { return f.key }
func (f *fakeSource) Fetch(ctx context.Context) ([]Channel, error) {
	f.calls.Add(1)
	return f.fetch(ctx)
}
func (f *fakeSource) PlaybackURL(ch Channel) (string, bool) { return ch.URL, ch.URL != "" }

func staticSource(key string, chans ...Channel) *fakeSource {
	return &fakeSource{key: key, fetch: func(context.Context) ([]Channel, error) { return chans, nil }}
}

func TestDirectoryServesSnapshotWithinTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := NewDirectory(nil, WithClock(clock))
	src := staticSource("k", Channel{StreamID: 1, Name: "beIN 1"})
	ctx := context.Background()

	first := d.Channels(ctx, src)
	require.Len(t, first, 1)

	clock.Advance(59 * time.Second)
	second := d.Channels(ctx, src)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), src.calls.Load())

	clock.Advance(time.Second)
	d.Channels(ctx, src)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestDirectoryCachesFailureAsEmpty(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := cache.NewMemoryStore[[]Channel]()
	d := NewDirectory(store, WithClock(clock))
	ctx := context.Background()

	ok := staticSource("k", Channel{StreamID: 1, Name: "one"})
	require.Len(t, d.Channels(ctx, ok), 1)

	// The old snapshot is replaced by the empty result of the failed refresh.
	clock.Advance(DefaultTTL)
	failing := &fakeSource{key: "k", fetch: func(context.Context) ([]Channel, error) {
		return nil, errors.New("upstream down")
	}}
	got := d.Channels(ctx, failing)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	clock.Advance(DefaultTTL - time.Second)
	assert.Empty(t, d.Channels(ctx, failing))
	assert.Equal(t, int32(1), failing.calls.Load())

	e, found := store.Get(ctx, "k")
	require.True(t, found)
	assert.Empty(t, e.Value)
}

func TestDirectoryKeysAreIndependent(t *testing.T) {
	d := NewDirectory(nil, WithClock(clockwork.NewFakeClock()))
	ctx := context.Background()

	a := staticSource("a", Channel{Name: "A"})
	b := staticSource("b", Channel{Name: "B"}, Channel{Name: "B2"})
	assert.Len(t, d.Channels(ctx, a), 1)
	assert.Len(t, d.Channels(ctx, b), 2)
	assert.Len(t, d.Channels(ctx, a), 1)
	assert.Equal(t, int32(1), a.calls.Load())
}

func TestDirectoryFetchTimeout(t *testing.T) {
	d := NewDirectory(nil, WithFetchTimeout(20*time.Millisecond))
	src := &fakeSource{key: "slow", fetch: func(ctx context.Context) ([]Channel, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}

	start := time.Now()
	got := d.Channels(context.Background(), src)
	assert.Empty(t, got)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDirectoryConcurrentMissesShareFetch(t *testing.T) {
	release := make(chan struct{})
	src := &fakeSource{key: "k", fetch: func(context.Context) ([]Channel, error) {
		<-release
		return []Channel{{StreamID: 9, Name: "x"}}, nil
	}}
	d := NewDirectory(nil, WithClock(clockwork.NewFakeClock()))

	var wg sync.WaitGroup
	results := make([][]Channel, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = d.Channels(context.Background(), src)
		}(i)
	}
	// Let the goroutines queue behind the first flight.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	for _, r := range results {
		assert.Len(t, r, 1)
	}
}

func TestDirectoryCallerCancelDoesNotPoisonSnapshot(t *testing.T) {
	d := NewDirectory(nil, WithClock(clockwork.NewFakeClock()))
	src := &fakeSource{key: "k", fetch: func(ctx context.Context) ([]Channel, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []Channel{{Name: "ok"}}, nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Len(t, d.Channels(ctx, src), 1)
}

func TestDirectoryRefreshBypassesTTL(t *testing.T) {
	d := NewDirectory(nil, WithClock(clockwork.NewFakeClock()))
	src := staticSource("k", Channel{Name: "x"})
	ctx := context.Background()

	d.Channels(ctx, src)
	d.Refresh(ctx, src)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestDirectoryNilSource(t *testing.T) {
	d := NewDirectory(nil)
	got := d.Channels(context.Background(), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
