// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/matchcast/internal/log"
)

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "token") || strings.Contains(k, "password") || strings.HasSuffix(k, "_key")
}

// parseEnv reads key through parse. Unset, empty and unparsable values yield def.
// Every decision is logged at debug; values of sensitive keys never are.
func parseEnv[T any](logger zerolog.Logger, key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		logger.Debug().Str("key", key).Str("source", "default").Msg("using default value")
		return def
	}

	v, err := parse(raw)
	if err != nil {
		ev := logger.Warn().Str("key", key).Err(err)
		if !isSensitiveKey(key) {
			ev = ev.Str("value", raw).Interface("default", def)
		}
		ev.Msg("invalid environment value, using default")
		return def
	}

	ev := logger.Debug().Str("key", key).Str("source", "environment")
	if isSensitiveKey(key) {
		ev = ev.Bool("sensitive", true)
	} else {
		ev = ev.Interface("value", v)
	}
	ev.Msg("using environment variable")
	return v
}

func envLogger() zerolog.Logger { return log.WithComponent("config") }

func ParseString(key, defaultValue string) string {
	return parseEnv(envLogger(), key, defaultValue, func(s string) (string, error) { return s, nil })
}

func ParseInt(key string, defaultValue int) int {
	return parseEnv(envLogger(), key, defaultValue, func(s string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(s))
	})
}

// ParseDuration accepts Go duration syntax ("90s", "5m").
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(envLogger(), key, defaultValue, func(s string) (time.Duration, error) {
		return time.ParseDuration(strings.TrimSpace(s))
	})
}

// ParseBool accepts true/false, 1/0 and yes/no in any case.
func ParseBool(key string, defaultValue bool) bool {
	return parseEnv(envLogger(), key, defaultValue, func(s string) (bool, error) {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return false, fmt.Errorf("not a boolean: %q", s)
	})
}

func ParseFloat(key string, defaultValue float64) float64 {
	return parseEnv(envLogger(), key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	})
}

// ParseList reads a comma separated list; see SplitList.
func ParseList(key string, defaultValue []string) []string {
	raw := ParseString(key, "")
	if raw == "" {
		return defaultValue
	}
	return SplitList(raw)
}

// SplitList splits on commas, trims items and drops empty ones.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
