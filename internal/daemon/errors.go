// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import "errors"

var (
	ErrMissingLogger     = errors.New("logger is required")
	ErrMissingAPIHandler = errors.New("API handler is required")
	ErrMissingManager    = errors.New("manager is required")

	// ErrManagerNotStarted is returned by Shutdown before Start.
	ErrManagerNotStarted = errors.New("manager not started")

	// ErrSyncNotConfigured is returned by BulkSync without a football-data key or store.
	ErrSyncNotConfigured = errors.New("bulk sync needs FOOTBALL_DATA_API_KEY and MATCHCAST_DB_PATH")
)
