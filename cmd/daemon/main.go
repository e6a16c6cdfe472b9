// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command matchcast serves today's football fixtures and matching live streams.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ManuGH/matchcast/internal/config"
	"github.com/ManuGH/matchcast/internal/daemon"
	xglog "github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/version"
)

func main() {
	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:]))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:]))
		case "sync":
			os.Exit(runSyncCLI(os.Args[2:]))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}
	os.Exit(serve(*configPath))
}

// loadDotEnv applies path when it exists. Variables already set win.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func serve(configPath string) int {
	xglog.Configure(xglog.Config{Level: "info", Service: "matchcast", Version: version.Version})
	logger := xglog.WithComponent("daemon")

	effective := resolveConfigPath(configPath)
	cfg, err := config.NewLoader(effective, version.Version).Load()
	if err != nil {
		logger.Error().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", effective).
			Msg("failed to load configuration")
		return 1
	}
	xglog.Configure(xglog.Config{Level: cfg.Log.Level, Service: cfg.Log.Service, Version: cfg.Version})

	source := "env+defaults"
	if effective != "" {
		source = "file"
	}
	logger.Info().
		Str("event", "config.loaded").
		Str("source", source).
		Str("path", effective).
		Msg("configuration loaded")

	ctx, stop := daemon.WaitForShutdown()
	defer stop()

	app, err := daemon.Build(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Str("event", "daemon.build_failed").Msg("failed to initialize")
		return 1
	}
	if err := app.Run(ctx); err != nil {
		logger.Error().Err(err).Str("event", "daemon.failed").Msg("daemon stopped with error")
		return 1
	}
	logger.Info().Str("event", "daemon.stopped").Msg("shutdown complete")
	return 0
}

func runSyncCLI(args []string) int {
	fset := flag.NewFlagSet("matchcast sync", flag.ContinueOnError)
	fset.SetOutput(os.Stderr)
	file := fset.String("config", "", "path to config file (YAML)")
	if err := fset.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.NewLoader(resolveConfigPath(*file), version.Version).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}
	xglog.Configure(xglog.Config{Level: cfg.Log.Level, Service: cfg.Log.Service, Version: cfg.Version})

	ctx, stop := daemon.WaitForShutdown()
	defer stop()

	res, err := daemon.BulkSync(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync failed: %v\n", err)
		return 1
	}
	fmt.Printf("synced fixtures: %d created, %d updated\n", res.Created, res.Updated)
	return 0
}

// resolveConfigPath prefers an explicit path, then ${MATCHCAST_DATA}/config.yaml when it exists.
func resolveConfigPath(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	dataDir := strings.TrimSpace(config.ParseString("MATCHCAST_DATA", "data"))
	if dataDir == "" {
		return ""
	}
	autoPath := filepath.Join(dataDir, "config.yaml")
	if _, err := os.Stat(autoPath); err == nil {
		return autoPath
	}
	return ""
}
