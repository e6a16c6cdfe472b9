// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package aggregator resolves today's fixtures from a chain of providers.
package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/matchcast/internal/cache"
	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/metrics"
	"github.com/ManuGH/matchcast/internal/providers"
	"github.com/ManuGH/matchcast/internal/translit"
)

// Defaults for the aggregator.
const (
	DefaultCacheTTL = 5 * time.Minute
	DefaultSyncTTL  = 5 * time.Minute
	DefaultTimeout  = 12 * time.Second
)

const todayKey = "fixtures:today"

// FixtureSink persists resolved fixtures.
type FixtureSink interface {
	SaveFixtures(ctx context.Context, list []fixtures.Fixture) error
}

// Snapshot is the cached result of one resolution.
type Snapshot struct {
	Date     string             `json:"date"`
	Fixtures []fixtures.Fixture `json:"fixtures"`
}

// Config tunes the aggregator. Zero values take the defaults.
type Config struct {
	Location      *time.Location
	CacheTTL      time.Duration
	SyncTTL       time.Duration
	Timeout       time.Duration
	LookbackDays  int
	LookaheadDays int
}

// Deps are the collaborators of an Aggregator. Primary and Secondary may be nil.
type Deps struct {
	Primary   providers.Provider
	Secondary providers.Provider
	Lookup    translit.Lookup
	Store     cache.Store[Snapshot]
	Sink      FixtureSink
	Clock     clockwork.Clock
}

type syncState struct {
	date     string
	at       time.Time
	inFlight bool
}

// Aggregator serves today's fixtures. Upstream failures never reach callers.
type Aggregator struct {
	cfg    Config
	deps   Deps
	logger zerolog.Logger
	group  singleflight.Group

	syncMu sync.Mutex
	sync   syncState
	wg     sync.WaitGroup
}

// New creates an aggregator.
func New(cfg Config, deps Deps) *Aggregator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.SyncTTL <= 0 {
		cfg.SyncTTL = DefaultSyncTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if deps.Store == nil {
		deps.Store = cache.NewMemoryStore[Snapshot]()
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	return &Aggregator{cfg: cfg, deps: deps, logger: log.WithComponent("aggregator")}
}

// Today returns the current date key in the configured location.
func (a *Aggregator) Today() string {
	return fixtures.DateKey(a.deps.Clock.Now(), a.cfg.Location)
}

// TodayFixtures returns the fixtures kicking off today. It never fails; when
// every provider is down it serves today's last snapshot or an empty list.
func (a *Aggregator) TodayFixtures(ctx context.Context) []fixtures.Fixture {
	now := a.deps.Clock.Now().In(a.cfg.Location)
	today := fixtures.DateKey(now, a.cfg.Location)

	if e, ok := a.deps.Store.Get(ctx, todayKey); ok && e.Value.Date == today && e.Fresh(now, a.cfg.CacheTTL) {
		return e.Value.Fixtures
	}

	v, _, _ := a.group.Do(today, func() (any, error) {
		return a.resolve(context.WithoutCancel(ctx), now, today), nil
	})
	return v.([]fixtures.Fixture)
}

func (a *Aggregator) resolve(ctx context.Context, now time.Time, today string) []fixtures.Fixture {
	cached, hasCached := a.deps.Store.Get(ctx, todayKey)
	if hasCached && cached.Value.Date == today && cached.Fresh(now, a.cfg.CacheTTL) {
		return cached.Value.Fixtures
	}
	l := log.WithContext(ctx, a.logger)

	chain := []struct {
		p providers.Provider
		w providers.Window
	}{
		{a.deps.Primary, providers.Day(now)},
		{a.deps.Secondary, providers.Around(now, a.cfg.LookbackDays, a.cfg.LookaheadDays)},
	}
	for _, step := range chain {
		if step.p == nil {
			continue
		}
		list, err := a.fetch(ctx, step.p, step.w)
		if err != nil {
			l.Warn().Err(err).Str(log.FieldProvider, string(step.p.Name())).Msg("fixture provider failed")
			continue
		}

		list = a.onDate(list, today)
		translit.Apply(a.deps.Lookup, list)
		a.deps.Store.Set(ctx, todayKey, cache.Entry[Snapshot]{
			StoredAt: now,
			Value:    Snapshot{Date: today, Fixtures: list},
		})
		metrics.RecordFixturesResolved(string(step.p.Name()), len(list))
		l.Debug().
			Str(log.FieldProvider, string(step.p.Name())).
			Str(log.FieldDate, today).
			Int(log.FieldFixtures, len(list)).
			Msg("today fixtures resolved")

		a.scheduleSync(ctx, today, list)
		return list
	}

	if hasCached && cached.Value.Date == today {
		metrics.RecordFixturesResolved("stale", len(cached.Value.Fixtures))
		l.Warn().Str(log.FieldDate, today).Msg("all fixture providers failed, serving last snapshot")
		return cached.Value.Fixtures
	}
	metrics.RecordFixturesResolved("none", 0)
	l.Warn().Str(log.FieldDate, today).Msg("all fixture providers failed, no snapshot for today")
	return []fixtures.Fixture{}
}

func (a *Aggregator) fetch(ctx context.Context, p providers.Provider, w providers.Window) ([]fixtures.Fixture, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()
	return p.Fixtures(ctx, w)
}

func (a *Aggregator) onDate(list []fixtures.Fixture, date string) []fixtures.Fixture {
	out := make([]fixtures.Fixture, 0, len(list))
	for _, f := range list {
		if f.LocalDate(a.cfg.Location) == date {
			out = append(out, f)
		}
	}
	return out
}

// FixtureByID looks a fixture up on the primary provider, then the secondary.
func (a *Aggregator) FixtureByID(ctx context.Context, id int64) (fixtures.Fixture, bool) {
	l := log.WithContext(ctx, a.logger)
	for _, p := range []providers.Provider{a.deps.Primary, a.deps.Secondary} {
		if p == nil {
			continue
		}
		f, err := a.fetchOne(ctx, p, id)
		if err != nil {
			l.Debug().Err(err).Str(log.FieldProvider, string(p.Name())).Int64(log.FieldFixtureID, id).Msg("fixture lookup failed")
			continue
		}
		list := []fixtures.Fixture{f}
		translit.Apply(a.deps.Lookup, list)
		return list[0], true
	}
	return fixtures.Fixture{}, false
}

func (a *Aggregator) fetchOne(ctx context.Context, p providers.Provider, id int64) (fixtures.Fixture, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()
	return p.FixtureByID(ctx, id)
}

// scheduleSync pushes list to the sink in the background, at most once per
// SyncTTL per date and never concurrently.
func (a *Aggregator) scheduleSync(ctx context.Context, date string, list []fixtures.Fixture) {
	if a.deps.Sink == nil {
		return
	}
	now := a.deps.Clock.Now()

	a.syncMu.Lock()
	if a.sync.inFlight || (a.sync.date == date && now.Sub(a.sync.at) < a.cfg.SyncTTL) {
		a.syncMu.Unlock()
		return
	}
	prev := a.sync.at
	a.sync = syncState{date: date, at: prev, inFlight: true}
	a.syncMu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		syncCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()

		err := a.deps.Sink.SaveFixtures(syncCtx, list)

		a.syncMu.Lock()
		a.sync.inFlight = false
		if err == nil {
			a.sync.at = a.deps.Clock.Now()
		} else {
			a.sync.at = prev
		}
		a.syncMu.Unlock()

		if err != nil {
			metrics.IncFixtureSync("failure")
			a.logger.Warn().Err(err).Str(log.FieldDate, date).Msg("fixture sync failed")
			return
		}
		metrics.IncFixtureSync("success")
	}()
}

// Wait blocks until background syncs have finished.
func (a *Aggregator) Wait() {
	a.wg.Wait()
}
