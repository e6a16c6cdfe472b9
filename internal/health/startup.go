// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ManuGH/matchcast/internal/config"
	"github.com/ManuGH/matchcast/internal/log"
)

// PerformStartupChecks validates the environment before the servers start.
func PerformStartupChecks(_ context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")

	if err := checkDataDir(logger, cfg.DataDir); err != nil {
		return fmt.Errorf("data directory check failed: %w", err)
	}
	for _, addr := range []string{cfg.Server.Listen, cfg.Server.MetricsListen} {
		if err := checkListenAddr(addr); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	switch {
	case cfg.Xtream.Enabled():
		logger.Info().Str(log.FieldBaseURL, log.MaskURL(cfg.Xtream.Host)).Msg("xtream channel source configured")
	case cfg.Channels.M3UURL != "":
		logger.Info().Str(log.FieldBaseURL, log.MaskURL(cfg.Channels.M3UURL)).Msg("m3u channel source configured")
	default:
		logger.Warn().Msg("no channel source configured; stream matching disabled")
	}
	if cfg.RapidAPI.Key == "" && cfg.FootballData.Key == "" {
		logger.Warn().Msg("no fixture provider key configured; today's fixtures will be empty")
	}
	return nil
}

func checkDataDir(logger zerolog.Logger, path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte("ok"), 0o600); err != nil {
		return fmt.Errorf("directory is not writable: %s (error: %v)", path, err)
	}
	_ = os.Remove(testFile)

	logger.Debug().Str(log.FieldPath, path).Msg("data directory is writable")
	return nil
}

func checkListenAddr(addr string) error {
	if addr == "" {
		return nil
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("invalid listen port %q in %q", port, addr)
	}
	return nil
}
