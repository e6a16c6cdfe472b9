// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package channels

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/ManuGH/matchcast/internal/m3u"
	"github.com/ManuGH/matchcast/internal/platform/httpx"
)

// M3USource lists channels from a remote M3U playlist.
type M3USource struct {
	url  string
	http *http.Client
}

// NewM3USource creates a playlist source. A nil client selects the hardened default.
func NewM3USource(playlistURL string, hc *http.Client) *M3USource {
	if hc == nil {
		hc = httpx.NewClient(0)
	}
	return &M3USource{url: playlistURL, http: hc}
}

// Kind implements Source.
func (s *M3USource) Kind() string { return "m3u" }

// CacheKey implements Source. Playlist URLs usually embed credentials, so
// only a digest of the URL is used.
func (s *M3USource) CacheKey() string {
	sum := sha256.Sum256([]byte(s.url))
	return "m3u|" + hex.EncodeToString(sum[:8])
}

// Fetch implements Source.
func (s *M3USource) Fetch(ctx context.Context) ([]Channel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("m3u: build request: %w", err)
	}
	res, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("m3u: fetch playlist: %w", errWithoutURL(err))
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("m3u: fetch playlist: HTTP %d", res.StatusCode)
	}

	entries, err := m3u.Read(res.Body)
	if err != nil {
		return nil, fmt.Errorf("m3u: %w", err)
	}
	out := make([]Channel, 0, len(entries))
	for _, e := range entries {
		out = append(out, Channel{Name: e.Name, Icon: e.Logo, Group: e.Group, URL: e.URL})
	}
	return out, nil
}

// PlaybackURL implements Source: playlist entries are played as listed.
func (s *M3USource) PlaybackURL(ch Channel) (string, bool) {
	return ch.URL, ch.URL != ""
}
