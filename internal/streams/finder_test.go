// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package streams

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/matchcast/internal/channels"
	"github.com/ManuGH/matchcast/internal/m3u"
	"github.com/ManuGH/matchcast/internal/matching"
	"github.com/ManuGH/matchcast/internal/xtream"
)

type staticLister struct {
	chans []channels.Channel
	calls int
}

func (s *staticLister) Channels(context.Context, channels.Source) []channels.Channel {
	s.calls++
	return s.chans
}

func xtreamSource() channels.Source {
	return channels.NewXtreamSource(xtream.New(xtream.Config{
		Host: "http://panel:8080", Username: "u", Password: "p", Output: "m3u8",
	}))
}

func fixtureChannels() []channels.Channel {
	return []channels.Channel{
		{StreamID: 1, Name: "CNN International"},
		{StreamID: 2, Name: "Real Madrid TV"},
		{StreamID: 3, Name: "LIVE Real Madrid vs Barcelona", Icon: "http://i/3.png"},
		{StreamID: 4, Name: "Real Madrid - Barcelona HD"},
		{StreamID: 5, Name: "Premier League: Arsenal"},
		{StreamID: 0, Name: "Liverpool v Everton"},
		{StreamID: 7, Name: ""},
	}
}

func TestFindBestStream(t *testing.T) {
	f := NewFinder(&staticLister{chans: fixtureChannels()}, xtreamSource())

	c, ok := f.FindBestStream(context.Background(), "Real Madrid", "FC Barcelona", "La Liga")
	require.True(t, ok)
	assert.Equal(t, Candidate{
		PlaybackURL: "http://panel:8080/live/u/p/3.m3u8",
		Name:        "LIVE Real Madrid vs Barcelona",
		Icon:        "http://i/3.png",
	}, c)
}

func TestFindBestStreamTieKeepsFirst(t *testing.T) {
	chans := []channels.Channel{
		{StreamID: 10, Name: "Real Madrid Barcelona"},
		{StreamID: 11, Name: "Barcelona Real Madrid"},
	}
	f := NewFinder(&staticLister{chans: chans}, xtreamSource())

	c, ok := f.FindBestStream(context.Background(), "Real Madrid", "Barcelona", "")
	require.True(t, ok)
	assert.Equal(t, "http://panel:8080/live/u/p/10.m3u8", c.PlaybackURL)
}

func TestFindBestStreamThreshold(t *testing.T) {
	f := NewFinder(&staticLister{chans: fixtureChannels()}, xtreamSource())

	// One team plus competition reaches exactly the threshold.
	c, ok := f.FindBestStream(context.Background(), "Arsenal", "Chelsea", "Premier League")
	require.True(t, ok)
	assert.Equal(t, "http://panel:8080/live/u/p/5.m3u8", c.PlaybackURL)

	// One team alone does not.
	_, ok = f.FindBestStream(context.Background(), "Arsenal", "Chelsea", "")
	assert.False(t, ok)
}

func TestFindBestStreamZeroStreamID(t *testing.T) {
	f := NewFinder(&staticLister{chans: fixtureChannels()}, xtreamSource())
	_, ok := f.FindBestStream(context.Background(), "Liverpool", "Everton", "")
	assert.False(t, ok)
}

func TestFindBestStreamDisabled(t *testing.T) {
	lister := &staticLister{chans: fixtureChannels()}
	f := NewFinder(lister, nil)

	_, ok := f.FindBestStream(context.Background(), "Real Madrid", "Barcelona", "")
	assert.False(t, ok)
	assert.Empty(t, f.FindBestStreams(context.Background(), []matching.Query{{ID: "1", Home: "Real Madrid", Away: "Barcelona"}}))
	assert.Empty(t, f.AvailableMatchIDs(context.Background(), []matching.Query{{ID: "1", Home: "Real Madrid", Away: "Barcelona"}}))
	assert.Equal(t, 0, lister.calls)
	assert.False(t, f.Enabled())
}

func TestFindBestStreamEmptyDirectory(t *testing.T) {
	f := NewFinder(&staticLister{}, xtreamSource())
	_, ok := f.FindBestStream(context.Background(), "Real Madrid", "Barcelona", "")
	assert.False(t, ok)
}

func TestFindBestStreamsSharesSnapshot(t *testing.T) {
	lister := &staticLister{chans: fixtureChannels()}
	f := NewFinder(lister, xtreamSource())

	queries := []matching.Query{
		{ID: "fd-1", Home: "Real Madrid", Away: "Barcelona", Competition: "La Liga"},
		{ID: "fd-2", Home: "Arsenal", Away: "Chelsea", Competition: "Premier League"},
		{ID: "fd-3", Home: "Juventus", Away: "Napoli", Competition: "Serie A"},
		{ID: "fd-4", Home: "Liverpool", Away: "Everton"},
	}
	got := f.FindBestStreams(context.Background(), queries)

	assert.Equal(t, 1, lister.calls)
	require.Len(t, got, 2)
	assert.Equal(t, "http://panel:8080/live/u/p/3.m3u8", got["fd-1"].PlaybackURL)
	assert.Equal(t, "http://panel:8080/live/u/p/5.m3u8", got["fd-2"].PlaybackURL)

	again := f.FindBestStreams(context.Background(), queries)
	assert.Equal(t, got, again)
}

func TestAvailableMatchIDs(t *testing.T) {
	lister := &staticLister{chans: fixtureChannels()}
	f := NewFinder(lister, xtreamSource())

	queries := []matching.Query{
		{ID: "fd-4", Home: "Liverpool", Away: "Everton"},
		{ID: "fd-3", Home: "Juventus", Away: "Napoli"},
		{ID: "fd-1", Home: "Real Madrid", Away: "Barcelona"},
	}
	// The threshold check ignores whether the winner is playable.
	assert.Equal(t, []string{"fd-4", "fd-1"}, f.AvailableMatchIDs(context.Background(), queries))
	assert.Equal(t, 1, lister.calls)

	assert.Equal(t, []string{}, f.AvailableMatchIDs(context.Background(), nil))
}

func TestFindBestStreamM3USource(t *testing.T) {
	chans := []channels.Channel{{Name: "Arsenal v Chelsea", URL: "http://cdn/ars.m3u8"}}
	f := NewFinder(&staticLister{chans: chans}, channels.NewM3USource("http://pl", nil))

	c, ok := f.FindBestStream(context.Background(), "Arsenal", "Chelsea", "")
	require.True(t, ok)
	assert.Equal(t, "http://cdn/ars.m3u8", c.PlaybackURL)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		ch   channels.Channel
		want string
	}{
		{channels.Channel{StreamID: 3, Name: "beIN 1"}, "beIN 1"},
		{channels.Channel{StreamID: 7}, "Stream 7"},
		{channels.Channel{URL: "http://cdn/anon.ts"}, m3u.UnknownName},
		{channels.Channel{}, m3u.UnknownName},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, displayName(tt.ch), "%+v", tt.ch)
	}
}
