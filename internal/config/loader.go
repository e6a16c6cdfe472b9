// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/matchcast/internal/platform/paths"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

func (l *Loader) envList(key string, defaultVal []string) []string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseList(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)

	if cfg.RapidAPI.Key == "" {
		cfg.RapidAPI.Key = cfg.FootballData.Key
	}
	cfg.Xtream.Host = strings.TrimRight(strings.TrimSpace(cfg.Xtream.Host), "/")
	cfg.Xtream.Username = strings.TrimSpace(cfg.Xtream.Username)
	cfg.Xtream.Password = strings.TrimSpace(cfg.Xtream.Password)
	// Panels only serve these two containers; anything else falls back to HLS.
	if strings.ToLower(strings.TrimSpace(cfg.Xtream.Output)) == "ts" {
		cfg.Xtream.Output = "ts"
	} else {
		cfg.Xtream.Output = DefaultXtreamOutput
	}

	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}
	if cfg.Store.DBPath != "" && !filepath.IsAbs(cfg.Store.DBPath) {
		p, err := paths.ResolveDataFilePath(cfg.DataDir, cfg.Store.DBPath, true)
		if err != nil {
			return cfg, fmt.Errorf("store.dbPath: %w", err)
		}
		cfg.Store.DBPath = p
	}
	if cfg.Playlist.Path != "" && !filepath.IsAbs(cfg.Playlist.Path) {
		p, err := paths.ValidatePlaylistPath(cfg.DataDir, cfg.Playlist.Path)
		if err != nil {
			return cfg, fmt.Errorf("playlist.path: %w", err)
		}
		cfg.Playlist.Path = p
	}

	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		DataDir: "data",
		Server: ServerConfig{
			Listen:        DefaultListen,
			MetricsListen: DefaultMetricsListen,
			RateLimitRPM:  120,
		},
		Xtream: XtreamConfig{Output: DefaultXtreamOutput},
		Channels: ChannelsConfig{
			CacheTTL:     60 * time.Second,
			FetchTimeout: 8 * time.Second,
		},
		Fixtures: FixturesConfig{
			Timeout:       12 * time.Second,
			CacheTTL:      5 * time.Minute,
			SyncTTL:       5 * time.Minute,
			Location:      "UTC",
			LookbackDays:  1,
			LookaheadDays: 1,
		},
		RapidAPI: RapidAPIConfig{
			Host:    DefaultRapidAPIHost,
			BaseURL: DefaultRapidAPIBaseURL,
			RPS:     5,
		},
		FootballData: FootballDataConfig{
			BaseURL:      DefaultFootballDataURL,
			Competitions: SplitList(DefaultCompetitions),
			DaysPast:     0,
			DaysFuture:   7,
		},
		Store:   StoreConfig{DBPath: "matchcast.db"},
		Refresh: RefreshConfig{Interval: 5 * time.Minute},
		Log:     LogConfig{Level: "info", Service: "matchcast"},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
	}
}

func (l *Loader) mergeEnv(cfg *AppConfig) {
	cfg.DataDir = l.envString("MATCHCAST_DATA", cfg.DataDir)
	cfg.Server.Listen = l.envString("MATCHCAST_LISTEN", cfg.Server.Listen)
	cfg.Server.MetricsListen = l.envString("MATCHCAST_METRICS_LISTEN", cfg.Server.MetricsListen)
	cfg.Server.RateLimitRPM = l.envInt("MATCHCAST_RATELIMIT_RPM", cfg.Server.RateLimitRPM)
	cfg.Store.DBPath = l.envString("MATCHCAST_DB_PATH", cfg.Store.DBPath)
	cfg.Playlist.Path = l.envString("MATCHCAST_PLAYLIST_PATH", cfg.Playlist.Path)
	cfg.Refresh.Interval = l.envDuration("MATCHCAST_REFRESH_INTERVAL", cfg.Refresh.Interval)

	cfg.Xtream.Host = l.envString("XTREAM_HOST", cfg.Xtream.Host)
	cfg.Xtream.Username = l.envString("XTREAM_USERNAME", cfg.Xtream.Username)
	cfg.Xtream.Password = l.envString("XTREAM_PASSWORD", cfg.Xtream.Password)
	cfg.Xtream.Output = l.envString("XTREAM_OUTPUT", cfg.Xtream.Output)

	cfg.Channels.M3UURL = l.envString("CHANNELS_M3U_URL", cfg.Channels.M3UURL)
	cfg.Channels.CacheTTL = l.envDuration("CHANNELS_CACHE_TTL", cfg.Channels.CacheTTL)
	cfg.Channels.FetchTimeout = l.envDuration("CHANNELS_FETCH_TIMEOUT", cfg.Channels.FetchTimeout)

	cfg.RapidAPI.Key = l.envString("FOOTBALL_RAPIDAPI_KEY", cfg.RapidAPI.Key)
	cfg.RapidAPI.Host = l.envString("FOOTBALL_RAPIDAPI_HOST", cfg.RapidAPI.Host)
	cfg.RapidAPI.BaseURL = l.envString("FOOTBALL_RAPIDAPI_BASE_URL", cfg.RapidAPI.BaseURL)
	cfg.RapidAPI.RPS = l.envFloat("FOOTBALL_RAPIDAPI_RPS", cfg.RapidAPI.RPS)

	cfg.FootballData.Key = l.envString("FOOTBALL_DATA_API_KEY", cfg.FootballData.Key)
	cfg.FootballData.BaseURL = l.envString("FOOTBALL_DATA_BASE_URL", cfg.FootballData.BaseURL)
	cfg.FootballData.Competitions = l.envList("FOOTBALL_DATA_COMPETITIONS", cfg.FootballData.Competitions)
	cfg.FootballData.DaysPast = l.envInt("FOOTBALL_DATA_DAYS_PAST", cfg.FootballData.DaysPast)
	cfg.FootballData.DaysFuture = l.envInt("FOOTBALL_DATA_DAYS_FUTURE", cfg.FootballData.DaysFuture)

	cfg.Fixtures.LookbackDays = l.envInt("FIXTURES_LOOKBACK_DAYS", cfg.Fixtures.LookbackDays)
	cfg.Fixtures.LookaheadDays = l.envInt("FIXTURES_LOOKAHEAD_DAYS", cfg.Fixtures.LookaheadDays)
	cfg.Fixtures.Timeout = l.envDuration("FIXTURES_TIMEOUT", cfg.Fixtures.Timeout)
	cfg.Fixtures.CacheTTL = l.envDuration("FIXTURES_CACHE_TTL", cfg.Fixtures.CacheTTL)
	cfg.Fixtures.SyncTTL = l.envDuration("FIXTURES_SYNC_TTL", cfg.Fixtures.SyncTTL)
	cfg.Fixtures.Location = l.envString("TZ_LOCATION", cfg.Fixtures.Location)

	cfg.Redis.Addr = l.envString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = l.envString("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = l.envInt("REDIS_DB", cfg.Redis.DB)

	cfg.Translit.File = l.envString("TRANSLIT_FILE", cfg.Translit.File)
	cfg.Log.Level = l.envString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Service = l.envString("LOG_SERVICE", cfg.Log.Service)

	cfg.Telemetry.Enabled = l.envBool("TELEMETRY_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString("TELEMETRY_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString("TELEMETRY_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat("TELEMETRY_SAMPLING", cfg.Telemetry.SamplingRate)
}

// loadFile decodes a YAML file over cfg with STRICT parsing.
// Unknown fields cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: %q (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrTrailingContent
	}
	return nil
}
