// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package channels keeps a short-lived snapshot of the live channels offered
// by an IPTV source.
package channels

import "context"

// Channel is one live channel. StreamID is set for Xtream channels, URL for
// playlist channels.
type Channel struct {
	StreamID int64  `json:"stream_id,omitempty"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Group    string `json:"group,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Source is an upstream channel list.
type Source interface {
	// Kind names the source type for logs and metrics.
	Kind() string
	// CacheKey identifies the upstream account. It must not contain secrets.
	CacheKey() string
	// Fetch downloads the full channel list.
	Fetch(ctx context.Context) ([]Channel, error)
	// PlaybackURL returns the URL a player should open for ch.
	PlaybackURL(ch Channel) (string, bool)
}
