// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Refresher is the periodic background job.
type Refresher interface {
	Loop(ctx context.Context, interval time.Duration)
}

// Watcher follows an external file until ctx is done.
type Watcher interface {
	Watch(ctx context.Context) error
}

// App owns the long-lived runtime (refresh loop, file watchers) and
// delegates server management to Manager.
type App struct {
	logger   zerolog.Logger
	manager  Manager
	refresh  Refresher
	interval time.Duration
	watchers []Watcher
}

// NewApp creates a new App orchestrator. refresh may be nil.
func NewApp(logger zerolog.Logger, manager Manager, refresh Refresher, interval time.Duration, watchers ...Watcher) *App {
	return &App{
		logger:   logger,
		manager:  manager,
		refresh:  refresh,
		interval: interval,
		watchers: watchers,
	}
}

// Manager returns the server manager, e.g. to register shutdown hooks.
func (a *App) Manager() Manager { return a.manager }

// Run starts all owned background subsystems and blocks until ctx is cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	if a.refresh != nil && a.interval > 0 {
		g.Go(func() error {
			a.refresh.Loop(ctx, a.interval)
			return nil
		})
	}

	// Watchers are best-effort: a failing watcher never stops the daemon.
	for _, w := range a.watchers {
		g.Go(func() error {
			if err := w.Watch(ctx); err != nil {
				a.logger.Warn().Err(err).Str("event", "watcher.failed").Msg("file watcher stopped")
			}
			return nil
		})
	}

	// Main server lifecycle.
	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})

	return g.Wait()
}
