// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package streams picks the live channel that best matches a fixture.
package streams

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ManuGH/matchcast/internal/channels"
	"github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/m3u"
	"github.com/ManuGH/matchcast/internal/matching"
	"github.com/ManuGH/matchcast/internal/metrics"
)

// Candidate is a playable stream chosen for a fixture.
type Candidate struct {
	PlaybackURL string `json:"playbackUrl"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
}

// Lister returns the current channel list of a source.
type Lister interface {
	Channels(ctx context.Context, src channels.Source) []channels.Channel
}

// Finder matches fixtures against one channel source.
type Finder struct {
	lister Lister
	src    channels.Source
	logger zerolog.Logger
}

// NewFinder creates a finder. A nil src disables matching: every lookup
// reports no candidate.
func NewFinder(lister Lister, src channels.Source) *Finder {
	return &Finder{
		lister: lister,
		src:    src,
		logger: log.WithComponent("streams"),
	}
}

// Enabled reports whether a channel source is configured.
func (f *Finder) Enabled() bool {
	return f != nil && f.src != nil && f.lister != nil
}

func (f *Finder) channels(ctx context.Context) []channels.Channel {
	if !f.Enabled() {
		return nil
	}
	return f.lister.Channels(ctx, f.src)
}

// FindBestStream returns the best channel for one fixture.
func (f *Finder) FindBestStream(ctx context.Context, home, away, competition string) (Candidate, bool) {
	if !f.Enabled() {
		metrics.RecordStreamMatch("disabled", 0, false)
		return Candidate{}, false
	}
	chans := f.channels(ctx)
	if len(chans) == 0 {
		metrics.RecordStreamMatch("no_channels", 0, false)
		return Candidate{}, false
	}
	q := matching.Query{Home: home, Away: away, Competition: competition}
	c, ok := f.pick(ctx, chans, q)
	return c, ok
}

// FindBestStreams matches every query against a single channel snapshot.
// Queries without an acceptable candidate are left out of the result.
func (f *Finder) FindBestStreams(ctx context.Context, queries []matching.Query) map[string]Candidate {
	out := make(map[string]Candidate)
	if !f.Enabled() || len(queries) == 0 {
		return out
	}
	chans := f.channels(ctx)
	if len(chans) == 0 {
		return out
	}
	for _, q := range queries {
		if c, ok := f.pick(ctx, chans, q); ok {
			out[q.ID] = c
		}
	}
	return out
}

// AvailableMatchIDs returns, in input order, the ids of queries whose best
// channel clears the score threshold. It builds no playback URLs.
func (f *Finder) AvailableMatchIDs(ctx context.Context, queries []matching.Query) []string {
	out := make([]string, 0)
	if !f.Enabled() || len(queries) == 0 {
		return out
	}
	chans := f.channels(ctx)
	if len(chans) == 0 {
		return out
	}
	for _, q := range queries {
		if _, score := best(chans, q.Tokens()); matching.Accept(score) {
			out = append(out, q.ID)
		}
	}
	return out
}

// displayName falls back to the stream ID for unnamed Xtream channels and to
// the playlist's placeholder for URL channels, which carry no ID.
func displayName(ch channels.Channel) string {
	switch {
	case ch.Name != "":
		return ch.Name
	case ch.StreamID > 0:
		return "Stream " + strconv.FormatInt(ch.StreamID, 10)
	default:
		return m3u.UnknownName
	}
}

func best(chans []channels.Channel, tok matching.Tokens) (int, int) {
	return matching.Best(len(chans), func(i int) string { return chans[i].Name }, tok)
}

func (f *Finder) pick(ctx context.Context, chans []channels.Channel, q matching.Query) (Candidate, bool) {
	idx, score := best(chans, q.Tokens())
	if idx < 0 {
		metrics.RecordStreamMatch("no_channels", 0, false)
		return Candidate{}, false
	}
	if !matching.Accept(score) {
		metrics.RecordStreamMatch("below_threshold", score, true)
		return Candidate{}, false
	}

	ch := chans[idx]
	playback, ok := f.src.PlaybackURL(ch)
	if !ok {
		metrics.RecordStreamMatch("unplayable", score, true)
		return Candidate{}, false
	}
	metrics.RecordStreamMatch("matched", score, true)

	name := displayName(ch)

	l := log.WithContext(ctx, f.logger)
	l.Debug().
		Str(log.FieldFixtureID, q.ID).
		Int64(log.FieldStreamID, ch.StreamID).
		Int(log.FieldScore, score).
		Str("channel", ch.Name).
		Msg("stream matched")

	return Candidate{PlaybackURL: playback, Name: name, Icon: ch.Icon}, true
}
