// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config provides configuration management for matchcast.
//
// Values are resolved with the precedence defaults < YAML file < environment.
// A missing Xtream host or credentials is a valid configuration: stream
// matching is simply disabled.
package config
