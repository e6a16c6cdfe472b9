// SPDX-License-Identifier: MIT

// Package daemon wires the runtime and manages its lifecycle.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ManuGH/matchcast/internal/aggregator"
	"github.com/ManuGH/matchcast/internal/api"
	"github.com/ManuGH/matchcast/internal/cache"
	"github.com/ManuGH/matchcast/internal/channels"
	"github.com/ManuGH/matchcast/internal/config"
	"github.com/ManuGH/matchcast/internal/health"
	"github.com/ManuGH/matchcast/internal/jobs"
	"github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/platform/httpx"
	"github.com/ManuGH/matchcast/internal/providers"
	"github.com/ManuGH/matchcast/internal/providers/apifootball"
	"github.com/ManuGH/matchcast/internal/providers/footballdata"
	"github.com/ManuGH/matchcast/internal/resilience"
	"github.com/ManuGH/matchcast/internal/store"
	"github.com/ManuGH/matchcast/internal/streams"
	"github.com/ManuGH/matchcast/internal/telemetry"
	"github.com/ManuGH/matchcast/internal/translit"
	"github.com/ManuGH/matchcast/internal/xtream"
)

const (
	// redisRetention bounds how long snapshots outlive their TTL in Redis.
	redisRetention = 24 * time.Hour

	breakerThreshold = 3
	breakerReset     = time.Minute
)

type closer struct {
	name string
	fn   ShutdownHook
}

// Build wires every component from cfg. Shutdown hooks release them in reverse order.
func Build(ctx context.Context, cfg config.AppConfig) (*App, error) {
	logger := log.WithComponent("daemon")

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		return nil, fmt.Errorf("startup checks: %w", err)
	}

	var closers []closer
	fail := func(err error) (*App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].fn(context.Background())
		}
		return nil, err
	}

	tel, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Log.Service,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("telemetry initialization failed, continuing without tracing")
	} else {
		closers = append(closers, closer{"telemetry", tel.Shutdown})
	}

	loc, err := time.LoadLocation(cfg.Fixtures.Location)
	if err != nil {
		return fail(fmt.Errorf("load location %q: %w", cfg.Fixtures.Location, err))
	}

	hm := health.NewManager(cfg.Version)

	var (
		chanStore cache.Store[[]channels.Channel] = cache.NewMemoryStore[[]channels.Channel]()
		snapStore cache.Store[aggregator.Snapshot] = cache.NewMemoryStore[aggregator.Snapshot]()
	)
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, caching in memory")
		} else {
			closers = append(closers, closer{"redis", func(context.Context) error { return rdb.Close() }})
			chanStore, snapStore = redisStores(rdb)
			hm.RegisterChecker(health.NewFuncChecker("redis", true, func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}))
		}
	}

	tsrc, err := translit.NewFileSource(cfg.Translit.File)
	if err != nil {
		return fail(fmt.Errorf("translit tables: %w", err))
	}

	var (
		st    *store.Store
		sink  aggregator.FixtureSink
		slugs api.FixtureStore
	)
	if cfg.Store.DBPath != "" {
		st, err = store.Open(ctx, cfg.Store.DBPath)
		if err != nil {
			return fail(fmt.Errorf("open fixture store: %w", err))
		}
		closers = append(closers, closer{"store", func(context.Context) error { return st.Close() }})
		sink, slugs = st, st
		hm.RegisterChecker(health.NewFuncChecker("store", false, st.HealthCheck))
	}

	src := channelSource(cfg)
	dir := channels.NewDirectory(chanStore,
		channels.WithTTL(cfg.Channels.CacheTTL),
		channels.WithFetchTimeout(cfg.Channels.FetchTimeout),
	)
	finder := streams.NewFinder(dir, src)

	primary, secondary := fixtureProviders(cfg)
	agg := aggregator.New(aggregator.Config{
		Location:      loc,
		CacheTTL:      cfg.Fixtures.CacheTTL,
		SyncTTL:       cfg.Fixtures.SyncTTL,
		Timeout:       cfg.Fixtures.Timeout,
		LookbackDays:  cfg.Fixtures.LookbackDays,
		LookaheadDays: cfg.Fixtures.LookaheadDays,
	}, aggregator.Deps{
		Primary:   primary,
		Secondary: secondary,
		Lookup:    translit.NewExact(tsrc),
		Store:     snapStore,
		Sink:      sink,
	})
	closers = append(closers, closer{"fixture-sync", func(context.Context) error {
		agg.Wait()
		return nil
	}})

	refresher := jobs.NewRefresher(cfg.Playlist.Path, jobs.RefreshDeps{
		Fixtures: agg,
		Channels: dir,
		Source:   src,
		Finder:   finder,
	})
	hm.RegisterChecker(health.NewLastRunChecker(nil, 3*cfg.Refresh.Interval, refresher.LastRun))

	tracing := ""
	if cfg.Telemetry.Enabled {
		tracing = cfg.Log.Service
	}
	srv := api.New(api.Config{
		RateLimitRPM:   cfg.Server.RateLimitRPM,
		TracingService: tracing,
	}, api.Deps{
		Fixtures: agg,
		Streams:  finder,
		Store:    slugs,
		Health:   hm,
	})

	deps := Deps{
		Logger:      logger,
		APIHandler:  srv.Handler(),
		MetricsAddr: cfg.Server.MetricsListen,
	}
	if cfg.Server.MetricsListen != "" {
		deps.MetricsHandler = api.NewMetricsHandler()
	}
	mgr, err := NewManager(DefaultServerConfig(cfg.Server.Listen), deps)
	if err != nil {
		return fail(err)
	}
	for _, c := range closers {
		mgr.RegisterShutdownHook(c.name, c.fn)
	}

	var watchers []Watcher
	if cfg.Translit.File != "" {
		watchers = append(watchers, tsrc)
	}

	logEnabled(logger, cfg, src)
	return NewApp(logger, mgr, refresher, cfg.Refresh.Interval, watchers...), nil
}

func redisStores(rdb *redis.Client) (cache.Store[[]channels.Channel], cache.Store[aggregator.Snapshot]) {
	l := log.WithComponent("cache")
	return cache.NewRedisStore[[]channels.Channel](rdb, "matchcast:channels:", redisRetention, l),
		cache.NewRedisStore[aggregator.Snapshot](rdb, "matchcast:fixtures:", redisRetention, l)
}

// channelSource picks Xtream when fully configured, then an M3U URL. Nil disables matching.
func channelSource(cfg config.AppConfig) channels.Source {
	hc := httpx.NewClient(cfg.Channels.FetchTimeout)
	switch {
	case cfg.Xtream.Enabled():
		return channels.NewXtreamSource(xtream.New(xtream.Config{
			Host:     cfg.Xtream.Host,
			Username: cfg.Xtream.Username,
			Password: cfg.Xtream.Password,
			Output:   cfg.Xtream.Output,
		}, xtream.WithHTTPClient(hc)))
	case cfg.Channels.M3UURL != "":
		return channels.NewM3USource(cfg.Channels.M3UURL, hc)
	}
	return nil
}

// fixtureProviders builds the breaker-guarded providers that have a key.
func fixtureProviders(cfg config.AppConfig) (primary, secondary providers.Provider) {
	if cfg.RapidAPI.Key != "" {
		primary = providers.Guard(
			apifootball.New(apifootball.Config{
				Key:     cfg.RapidAPI.Key,
				Host:    cfg.RapidAPI.Host,
				BaseURL: cfg.RapidAPI.BaseURL,
				RPS:     cfg.RapidAPI.RPS,
			}),
			resilience.NewCircuitBreaker("rapidapi", breakerThreshold, breakerReset),
		)
	}
	if cfg.FootballData.Key != "" {
		secondary = providers.Guard(
			footballdata.New(footballdata.Config{Key: cfg.FootballData.Key, BaseURL: cfg.FootballData.BaseURL}),
			resilience.NewCircuitBreaker("football-data", breakerThreshold, breakerReset),
		)
	}
	return primary, secondary
}

func logEnabled(logger zerolog.Logger, cfg config.AppConfig, src channels.Source) {
	kind := "none"
	if src != nil {
		kind = src.Kind()
	}
	logger.Info().
		Str("version", cfg.Version).
		Str("listen", cfg.Server.Listen).
		Str("channel_source", kind).
		Bool("rapidapi", cfg.RapidAPI.Key != "").
		Bool("football_data", cfg.FootballData.Key != "").
		Bool("store", cfg.Store.DBPath != "").
		Bool("redis", cfg.Redis.Addr != "").
		Str(log.FieldPlaylistPath, cfg.Playlist.Path).
		Msg("matchcast wired")
}

// BulkSync runs the football-data bulk sync once against the configured store.
func BulkSync(ctx context.Context, cfg config.AppConfig) (store.Result, error) {
	if cfg.FootballData.Key == "" || cfg.Store.DBPath == "" {
		return store.Result{}, ErrSyncNotConfigured
	}
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return store.Result{}, fmt.Errorf("create data dir: %w", err)
	}
	loc, err := time.LoadLocation(cfg.Fixtures.Location)
	if err != nil {
		return store.Result{}, fmt.Errorf("load location %q: %w", cfg.Fixtures.Location, err)
	}

	tsrc, err := translit.NewFileSource(cfg.Translit.File)
	if err != nil {
		return store.Result{}, fmt.Errorf("translit tables: %w", err)
	}
	st, err := store.Open(ctx, cfg.Store.DBPath)
	if err != nil {
		return store.Result{}, fmt.Errorf("open fixture store: %w", err)
	}
	defer func() { _ = st.Close() }()

	return jobs.BulkSync(ctx, jobs.SyncConfig{
		Competitions: cfg.FootballData.Competitions,
		DaysPast:     cfg.FootballData.DaysPast,
		DaysFuture:   cfg.FootballData.DaysFuture,
		Location:     loc,
	}, jobs.SyncDeps{
		Matches: footballdata.New(footballdata.Config{Key: cfg.FootballData.Key, BaseURL: cfg.FootballData.BaseURL}),
		Store:   st,
		Lookup:  translit.NewComposer(tsrc),
	})
}

// WaitForShutdown returns a context cancelled on interrupt/termination signals.
func WaitForShutdown() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
