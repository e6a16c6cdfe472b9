// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/metrics"
	"github.com/ManuGH/matchcast/internal/providers"
	"github.com/ManuGH/matchcast/internal/store"
	"github.com/ManuGH/matchcast/internal/telemetry"
	"github.com/ManuGH/matchcast/internal/translit"
)

// MatchLister lists fixtures of a date range, filtered by competition codes.
// *footballdata.Client implements it.
type MatchLister interface {
	Matches(ctx context.Context, w providers.Window, competitions []string) ([]fixtures.Fixture, error)
}

// Upserter persists fixtures. *store.Store implements it.
type Upserter interface {
	Upsert(ctx context.Context, list []fixtures.Fixture) (store.Result, error)
}

// SyncConfig selects what the bulk sync fetches.
type SyncConfig struct {
	Competitions []string
	DaysPast     int
	DaysFuture   int
	Location     *time.Location
}

// SyncDeps are the collaborators of BulkSync.
type SyncDeps struct {
	Matches MatchLister
	Store   Upserter
	Lookup  translit.Lookup
	Clock   clockwork.Clock
}

// BulkSync fetches [today-DaysPast, today+DaysFuture], fills in Arabic names
// and upserts everything into the store.
func BulkSync(ctx context.Context, cfg SyncConfig, deps SyncDeps) (store.Result, error) {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	ctx = log.ContextWithCorrelationID(ctx, uuid.NewString())
	ctx, span := telemetry.Tracer("matchcast.jobs").Start(ctx, "jobs.sync")
	defer span.End()
	logger := log.WithComponentFromContext(ctx, "sync")

	w := providers.Around(deps.Clock.Now().In(loc), cfg.DaysPast, cfg.DaysFuture)
	logger.Info().
		Str(log.FieldEvent, "sync.start").
		Str("from", w.FromDate()).
		Str("to", w.ToDate()).
		Strs("competitions", cfg.Competitions).
		Msg("starting bulk sync")

	list, err := deps.Matches.Matches(ctx, w, cfg.Competitions)
	if err != nil {
		telemetry.RecordError(span, err, "fetch")
		span.SetAttributes(telemetry.JobAttributes("sync", "failed")...)
		return store.Result{}, fmt.Errorf("fetch matches: %w", err)
	}
	translit.Apply(deps.Lookup, list)

	res, err := deps.Store.Upsert(ctx, list)
	if err != nil {
		telemetry.RecordError(span, err, "upsert")
		span.SetAttributes(telemetry.JobAttributes("sync", "failed")...)
		return store.Result{}, fmt.Errorf("upsert fixtures: %w", err)
	}
	metrics.RecordBulkSync(res.Created, res.Updated)
	span.SetAttributes(telemetry.FixtureAttributes("football-data", w.FromDate(), len(list))...)
	span.SetAttributes(telemetry.JobAttributes("sync", "success")...)

	logger.Info().
		Str(log.FieldEvent, "sync.success").
		Int(log.FieldFixtures, len(list)).
		Int("created", res.Created).
		Int("updated", res.Updated).
		Msg("bulk sync completed")
	return res, nil
}
