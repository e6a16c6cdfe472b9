// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldTraceID       = "trace_id"
	FieldFixtureID     = "fixture_id"
	FieldStreamID      = "stream_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldProvider  = "provider"
	FieldSource    = "source"

	// Matching fields
	FieldScore    = "score"
	FieldChannels = "channels"
	FieldFixtures = "fixtures"
	FieldDate     = "date"

	// Path / URL fields
	FieldPath         = "path"
	FieldBaseURL      = "base_url"
	FieldPlaylistPath = "playlist_path"
)
