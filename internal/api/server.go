// SPDX-License-Identifier: MIT

// Package api serves the fixtures and streams HTTP API.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/matchcast/internal/api/middleware"
	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/health"
	"github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/matching"
	"github.com/ManuGH/matchcast/internal/streams"
)

// FixtureSource resolves fixtures. *aggregator.Aggregator implements it.
type FixtureSource interface {
	Today() string
	TodayFixtures(ctx context.Context) []fixtures.Fixture
	FixtureByID(ctx context.Context, id int64) (fixtures.Fixture, bool)
}

// StreamFinder picks channels for fixtures. *streams.Finder implements it.
type StreamFinder interface {
	Enabled() bool
	FindBestStream(ctx context.Context, home, away, competition string) (streams.Candidate, bool)
	FindBestStreams(ctx context.Context, queries []matching.Query) map[string]streams.Candidate
	AvailableMatchIDs(ctx context.Context, queries []matching.Query) []string
}

// FixtureStore looks fixtures up by slug. *store.Store implements it.
type FixtureStore interface {
	FixtureBySlug(ctx context.Context, slug string) (fixtures.Fixture, bool, error)
}

// Config tunes the HTTP surface.
type Config struct {
	RateLimitRPM   int
	TracingService string // empty disables request tracing
}

// Deps are the collaborators of the server. Store and Health may be nil.
type Deps struct {
	Fixtures FixtureSource
	Streams  StreamFinder
	Store    FixtureStore
	Health   *health.Manager
}

// Server holds the API handlers.
type Server struct {
	cfg    Config
	deps   Deps
	group  singleflight.Group
	logger zerolog.Logger
}

// New creates a server.
func New(cfg Config, deps Deps) *Server {
	return &Server{cfg: cfg, deps: deps, logger: log.WithComponent("api")}
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        s.cfg.TracingService,
		EnableLogging:         true,
		RateLimitRPM:          s.cfg.RateLimitRPM,
	})

	if s.deps.Health != nil {
		r.Get("/healthz", s.deps.Health.ServeHealth)
		r.Get("/readyz", s.deps.Health.ServeReady)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/fixtures/today", s.handleTodayFixtures)
		r.Get("/fixtures/today/streams", s.handleTodayStreams)
		r.Get("/fixtures/today/available", s.handleTodayAvailable)
		r.Get("/fixtures/{slug}", s.handleFixtureBySlug)
		r.Get("/streams/best", s.handleBestStream)
		r.Get("/playlist/today.m3u", s.handleTodayPlaylist)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { writeNotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method_not_allowed"})
	})
	return r
}

// NewMetricsHandler serves the Prometheus registry.
func NewMetricsHandler() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	return r
}
