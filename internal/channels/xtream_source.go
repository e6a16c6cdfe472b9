// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package channels

import (
	"context"

	"github.com/ManuGH/matchcast/internal/xtream"
)

// XtreamSource lists channels through the player API.
type XtreamSource struct {
	client *xtream.Client
}

// NewXtreamSource wraps a player API client.
func NewXtreamSource(client *xtream.Client) *XtreamSource {
	return &XtreamSource{client: client}
}

// Kind implements Source.
func (s *XtreamSource) Kind() string { return "xtream" }

// CacheKey implements Source: host|username|output.
func (s *XtreamSource) CacheKey() string { return s.client.Config().CacheKey() }

// Fetch implements Source.
func (s *XtreamSource) Fetch(ctx context.Context) ([]Channel, error) {
	streams, err := s.client.LiveStreams(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Channel, 0, len(streams))
	for _, st := range streams {
		out = append(out, Channel{
			StreamID: int64(st.StreamID),
			Name:     st.Name,
			Icon:     st.StreamIcon,
			Group:    st.CategoryID,
		})
	}
	return out, nil
}

// PlaybackURL implements Source. Channels without a stream id are not playable.
func (s *XtreamSource) PlaybackURL(ch Channel) (string, bool) {
	if ch.StreamID == 0 {
		return "", false
	}
	return s.client.Config().PlaybackURL(xtream.StreamID(ch.StreamID)), true
}
