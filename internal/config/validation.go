// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"

	pnet "github.com/ManuGH/matchcast/internal/platform/net"
	"github.com/ManuGH/matchcast/internal/validate"
)

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.Directory("dataDir", cfg.DataDir, false)
	v.ListenAddr("server.listen", cfg.Server.Listen)
	if cfg.Server.MetricsListen != "" {
		v.ListenAddr("server.metricsListen", cfg.Server.MetricsListen)
	}
	v.NonNegative("server.rateLimitRpm", cfg.Server.RateLimitRPM)

	// Xtream is optional; a partial configuration only disables matching.
	if cfg.Xtream.Host != "" {
		v.URL("xtream.host", cfg.Xtream.Host, []string{"http", "https"})
		if _, _, err := pnet.NormalizeAuthority(cfg.Xtream.Host, "http"); err != nil {
			v.AddError("xtream.host", err.Error(), cfg.Xtream.Host)
		}
	}
	if cfg.Channels.M3UURL != "" {
		v.URL("channels.m3uUrl", cfg.Channels.M3UURL, []string{"http", "https"})
	}
	v.PositiveDuration("channels.cacheTtl", cfg.Channels.CacheTTL)
	v.PositiveDuration("channels.fetchTimeout", cfg.Channels.FetchTimeout)

	v.PositiveDuration("fixtures.timeout", cfg.Fixtures.Timeout)
	v.PositiveDuration("fixtures.cacheTtl", cfg.Fixtures.CacheTTL)
	v.PositiveDuration("fixtures.syncTtl", cfg.Fixtures.SyncTTL)
	v.Location("fixtures.location", cfg.Fixtures.Location)
	v.Range("fixtures.lookbackDays", cfg.Fixtures.LookbackDays, 0, 30)
	v.Range("fixtures.lookaheadDays", cfg.Fixtures.LookaheadDays, 0, 30)

	if _, err := pnet.NormalizeHost(cfg.RapidAPI.Host); err != nil {
		v.AddError("rapidapi.host", err.Error(), cfg.RapidAPI.Host)
	}
	v.URL("rapidapi.baseUrl", cfg.RapidAPI.BaseURL, []string{"http", "https"})
	if cfg.RapidAPI.RPS < 0 {
		v.AddError("rapidapi.rps", "value cannot be negative", cfg.RapidAPI.RPS)
	}
	v.URL("footballData.baseUrl", cfg.FootballData.BaseURL, []string{"http", "https"})
	v.Range("footballData.daysPast", cfg.FootballData.DaysPast, 0, 60)
	v.Range("footballData.daysFuture", cfg.FootballData.DaysFuture, 0, 60)

	v.PositiveDuration("refresh.interval", cfg.Refresh.Interval)
	v.NonNegative("redis.db", cfg.Redis.DB)

	if _, err := validate.ParseLogLevel(strings.ToLower(cfg.Log.Level)); err != nil {
		v.AddError("log.level", err.Error(), cfg.Log.Level)
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.Fraction("telemetry.samplingRate", cfg.Telemetry.SamplingRate)
	}

	return v.Err()
}
