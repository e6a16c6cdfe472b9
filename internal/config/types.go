// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"
	"time"
)

// AppConfig is the fully resolved daemon configuration.
type AppConfig struct {
	Version string `yaml:"-"`
	DataDir string `yaml:"dataDir"`

	Server       ServerConfig       `yaml:"server"`
	Xtream       XtreamConfig       `yaml:"xtream"`
	Channels     ChannelsConfig     `yaml:"channels"`
	Fixtures     FixturesConfig     `yaml:"fixtures"`
	RapidAPI     RapidAPIConfig     `yaml:"rapidapi"`
	FootballData FootballDataConfig `yaml:"footballData"`
	Store        StoreConfig        `yaml:"store"`
	Playlist     PlaylistConfig     `yaml:"playlist"`
	Refresh      RefreshConfig      `yaml:"refresh"`
	Redis        RedisConfig        `yaml:"redis"`
	Translit     TranslitConfig     `yaml:"translit"`
	Log          LogConfig          `yaml:"log"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
}

// ServerConfig holds listener addresses.
type ServerConfig struct {
	Listen        string `yaml:"listen"`
	MetricsListen string `yaml:"metricsListen"`
	// RateLimitRPM is the per-client request budget of the API; 0 disables limiting.
	RateLimitRPM int `yaml:"rateLimitRpm"`
}

// XtreamConfig identifies the Xtream Codes panel used as channel source.
type XtreamConfig struct {
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Output   string `yaml:"output"`
}

// Enabled reports whether host and both credentials are present.
func (x XtreamConfig) Enabled() bool {
	return strings.TrimSpace(x.Host) != "" && x.Username != "" && x.Password != ""
}

// ChannelsConfig controls the live channel directory.
type ChannelsConfig struct {
	M3UURL       string        `yaml:"m3uUrl"`
	CacheTTL     time.Duration `yaml:"cacheTtl"`
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
}

// FixturesConfig controls the today aggregator.
type FixturesConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	CacheTTL      time.Duration `yaml:"cacheTtl"`
	SyncTTL       time.Duration `yaml:"syncTtl"`
	Location      string        `yaml:"location"`
	LookbackDays  int           `yaml:"lookbackDays"`
	LookaheadDays int           `yaml:"lookaheadDays"`
}

// RapidAPIConfig configures the API-Football (RapidAPI) provider.
type RapidAPIConfig struct {
	Key     string  `yaml:"key"`
	Host    string  `yaml:"host"`
	BaseURL string  `yaml:"baseUrl"`
	RPS     float64 `yaml:"rps"`
}

// FootballDataConfig configures the football-data.org provider and the bulk sync.
type FootballDataConfig struct {
	Key          string   `yaml:"key"`
	BaseURL      string   `yaml:"baseUrl"`
	Competitions []string `yaml:"competitions"`
	DaysPast     int      `yaml:"daysPast"`
	DaysFuture   int      `yaml:"daysFuture"`
}

// StoreConfig configures fixture persistence.
type StoreConfig struct {
	// DBPath is the SQLite file; empty disables persistence.
	DBPath string `yaml:"dbPath"`
}

// PlaylistConfig configures the on-disk today playlist.
type PlaylistConfig struct {
	Path string `yaml:"path"`
}

// RefreshConfig configures the background refresh loop.
type RefreshConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// RedisConfig selects the Redis cache backend; empty Addr keeps caches in memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// TranslitConfig points at an optional YAML file of Arabic name overrides.
type TranslitConfig struct {
	File string `yaml:"file"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// Default values.
const (
	DefaultListen          = ":8080"
	DefaultMetricsListen   = ":9090"
	DefaultXtreamOutput    = "m3u8"
	DefaultRapidAPIHost    = "api-football-v1.p.rapidapi.com"
	DefaultRapidAPIBaseURL = "https://api-football-v1.p.rapidapi.com/v3"
	DefaultFootballDataURL = "https://api.football-data.org/v4"
	DefaultCompetitions    = "PL,PD,SA,BL1,FL1,DED"
)
