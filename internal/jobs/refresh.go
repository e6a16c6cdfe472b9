// SPDX-License-Identifier: MIT

// Package jobs holds the background refresh and the bulk fixture sync.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/ManuGH/matchcast/internal/channels"
	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/matching"
	"github.com/ManuGH/matchcast/internal/metrics"
	"github.com/ManuGH/matchcast/internal/playlist"
	"github.com/ManuGH/matchcast/internal/streams"
	"github.com/ManuGH/matchcast/internal/telemetry"
)

// Status represents the outcome of the last refresh run.
type Status struct {
	LastRun    time.Time `json:"last_run"`
	Fixtures   int       `json:"fixtures"`
	Channels   int       `json:"channels"`
	Candidates int       `json:"candidates"`
	Error      string    `json:"error,omitempty"`
}

// FixtureSource yields today's fixtures.
type FixtureSource interface {
	Today() string
	TodayFixtures(ctx context.Context) []fixtures.Fixture
}

// ChannelWarmer forces a fresh channel list into the directory cache.
type ChannelWarmer interface {
	Refresh(ctx context.Context, src channels.Source) []channels.Channel
}

// CandidateFinder matches fixtures to channels.
type CandidateFinder interface {
	FindBestStreams(ctx context.Context, queries []matching.Query) map[string]streams.Candidate
}

// RefreshDeps are the collaborators of a Refresher. Channels, Source and
// Finder may be nil when no channel source is configured.
type RefreshDeps struct {
	Fixtures FixtureSource
	Channels ChannelWarmer
	Source   channels.Source
	Finder   CandidateFinder
	Clock    clockwork.Clock
}

// Refresher warms fixtures and channels and writes the today playlist.
type Refresher struct {
	deps         RefreshDeps
	playlistPath string

	mu     sync.RWMutex
	status Status
}

// NewRefresher creates a refresher. An empty playlistPath skips the file write.
func NewRefresher(playlistPath string, deps RefreshDeps) *Refresher {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	return &Refresher{deps: deps, playlistPath: playlistPath}
}

// Status returns a copy of the last run's status.
func (r *Refresher) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// LastRun reports the last successful run time and the last error, for health checks.
func (r *Refresher) LastRun() (time.Time, string) {
	s := r.Status()
	return s.LastRun, s.Error
}

// Run performs one refresh cycle: fixtures, channels, candidates, playlist.
// Only a failed playlist write is an error; upstream problems degrade to empty results.
func (r *Refresher) Run(ctx context.Context) (Status, error) {
	ctx = log.ContextWithCorrelationID(ctx, uuid.NewString())
	ctx, span := telemetry.Tracer("matchcast.jobs").Start(ctx, "jobs.refresh")
	defer span.End()

	logger := log.WithComponentFromContext(ctx, "jobs")
	start := r.deps.Clock.Now()
	logger.Info().Str(log.FieldEvent, "refresh.start").Msg("starting refresh")

	list := r.deps.Fixtures.TodayFixtures(ctx)
	date := r.deps.Fixtures.Today()
	span.SetAttributes(telemetry.FixtureAttributes("", date, len(list))...)

	var chans []channels.Channel
	if r.deps.Channels != nil && r.deps.Source != nil {
		chans = r.deps.Channels.Refresh(ctx, r.deps.Source)
		span.SetAttributes(telemetry.ChannelAttributes(r.deps.Source.Kind(), len(chans))...)
	}

	cands := map[string]streams.Candidate{}
	if r.deps.Finder != nil && len(list) > 0 {
		cands = r.deps.Finder.FindBestStreams(ctx, fixtures.Queries(list))
	}
	items := playlist.Build(list, cands)
	metrics.RecordPlaylistEntries(len(items))

	status := Status{
		LastRun:    r.deps.Clock.Now(),
		Fixtures:   len(list),
		Channels:   len(chans),
		Candidates: len(cands),
	}

	if r.playlistPath != "" {
		if err := playlist.WriteFile(ctx, r.playlistPath, items); err != nil {
			metrics.IncRefreshFailure("playlist")
			telemetry.RecordError(span, err, "playlist_write")
			span.SetAttributes(telemetry.JobAttributes("refresh", "failed")...)
			r.fail(err)
			logger.Error().Err(err).
				Str(log.FieldEvent, "refresh.failed").
				Str(log.FieldPlaylistPath, r.playlistPath).
				Msg("refresh failed")
			return r.Status(), fmt.Errorf("write playlist: %w", err)
		}
		logger.Info().
			Str(log.FieldEvent, "playlist.write").
			Str(log.FieldPlaylistPath, r.playlistPath).
			Int("entries", len(items)).
			Msg("playlist written")
	}

	r.mu.Lock()
	r.status = status
	r.mu.Unlock()

	metrics.RecordRefresh(r.deps.Clock.Since(start), status.LastRun)
	span.SetAttributes(telemetry.JobAttributes("refresh", "success")...)
	logger.Info().
		Str(log.FieldEvent, "refresh.success").
		Str(log.FieldDate, date).
		Int(log.FieldFixtures, status.Fixtures).
		Int(log.FieldChannels, status.Channels).
		Int("candidates", status.Candidates).
		Msg("refresh completed")
	return status, nil
}

// fail keeps the last successful run time and records the error.
func (r *Refresher) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Error = err.Error()
}

// Loop runs Run immediately and then every interval until ctx is done.
func (r *Refresher) Loop(ctx context.Context, interval time.Duration) {
	logger := log.WithComponentFromContext(ctx, "jobs")
	ticker := r.deps.Clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := r.Run(ctx); err != nil {
			logger.Warn().Err(err).Str(log.FieldEvent, "refresh.loop_error").Msg("refresh run failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}
	}
}
