// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package channels

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/matchcast/internal/cache"
	"github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/metrics"
)

// Defaults for the directory.
const (
	DefaultTTL          = 60 * time.Second
	DefaultFetchTimeout = 8 * time.Second
)

// Directory serves channel lists from a TTL snapshot per source.
//
// A failed fetch is stored as an empty list and served for a full TTL, so a
// broken upstream is retried at most once per TTL. Entries are only ever
// overwritten. Returned slices are shared and must not be modified.
type Directory struct {
	store   cache.Store[[]Channel]
	clock   clockwork.Clock
	ttl     time.Duration
	timeout time.Duration
	logger  zerolog.Logger
	group   singleflight.Group
}

// Option configures a Directory.
type Option func(*Directory)

// WithClock injects the time source.
func WithClock(c clockwork.Clock) Option {
	return func(d *Directory) { d.clock = c }
}

// WithTTL sets how long a snapshot is served.
func WithTTL(ttl time.Duration) Option {
	return func(d *Directory) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

// WithFetchTimeout bounds each upstream fetch.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(d *Directory) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// NewDirectory creates a directory over store. A nil store keeps snapshots in memory.
func NewDirectory(store cache.Store[[]Channel], opts ...Option) *Directory {
	if store == nil {
		store = cache.NewMemoryStore[[]Channel]()
	}
	d := &Directory{
		store:   store,
		clock:   clockwork.NewRealClock(),
		ttl:     DefaultTTL,
		timeout: DefaultFetchTimeout,
		logger:  log.WithComponent("channels"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Channels returns the channel list of src. It never fails: upstream errors
// yield an empty list.
func (d *Directory) Channels(ctx context.Context, src Source) []Channel {
	if src == nil {
		return []Channel{}
	}
	key := src.CacheKey()

	if e, ok := d.store.Get(ctx, key); ok && e.Fresh(d.clock.Now(), d.ttl) {
		metrics.IncChannelCache(true)
		return e.Value
	}
	metrics.IncChannelCache(false)

	v, _, _ := d.group.Do(key, func() (any, error) {
		// A flight that finished while we were queued already stored a fresh list.
		if e, ok := d.store.Get(ctx, key); ok && e.Fresh(d.clock.Now(), d.ttl) {
			return e.Value, nil
		}
		return d.refresh(ctx, src, key), nil
	})
	return v.([]Channel)
}

// Refresh fetches src unconditionally and replaces its snapshot.
func (d *Directory) Refresh(ctx context.Context, src Source) []Channel {
	if src == nil {
		return []Channel{}
	}
	key := src.CacheKey()
	v, _, _ := d.group.Do(key, func() (any, error) {
		return d.refresh(ctx, src, key), nil
	})
	return v.([]Channel)
}

func (d *Directory) refresh(ctx context.Context, src Source, key string) []Channel {
	// Waiters share this fetch, so one caller's cancellation must not end it.
	base := context.WithoutCancel(ctx)
	now := d.clock.Now()

	fetchCtx, cancel := context.WithTimeout(base, d.timeout)
	defer cancel()

	chans, err := src.Fetch(fetchCtx)
	metrics.RecordChannelFetch(src.Kind(), len(chans), err)
	l := log.WithContext(ctx, d.logger)
	if err != nil {
		l.Warn().Err(err).
			Str(log.FieldSource, src.Kind()).
			Str("cache_key", key).
			Msg("channel fetch failed, caching empty list")
		chans = []Channel{}
	} else {
		l.Debug().
			Str(log.FieldSource, src.Kind()).
			Int(log.FieldChannels, len(chans)).
			Msg("channel list refreshed")
	}
	if chans == nil {
		chans = []Channel{}
	}

	d.store.Set(base, key, cache.Entry[[]Channel]{StoredAt: now, Value: chans})
	return chans
}
