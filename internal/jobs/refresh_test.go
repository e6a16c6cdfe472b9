// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/matchcast/internal/channels"
	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/matching"
	"github.com/ManuGH/matchcast/internal/streams"
)

type stubFixtures struct {
	list  []fixtures.Fixture
	calls atomic.Int32
}

func (s *stubFixtures) Today() string { return "2025-03-01" }

func (s *stubFixtures) TodayFixtures(context.Context) []fixtures.Fixture {
	s.calls.Add(1)
	return s.list
}

type stubSource struct{}

func (stubSource) Kind() string { return "stub" }
func (stubSource) CacheKey() string { return "stub" }
func (stubSource) Fetch(context.Context) ([]channels.Channel, error) { return nil, nil }
func (stubSource) PlaybackURL(ch channels.Channel) (string, bool) { return "http://x/" + ch.Name, true }

type stubWarmer struct {
	chans []channels.Channel
	calls atomic.Int32
}

func (w *stubWarmer) Refresh(context.Context, channels.Source) []channels.Channel {
	w.calls.Add(1)
	return w.chans
}

type stubFinder map[string]streams.Candidate

func (f stubFinder) FindBestStreams(_ context.Context, qs []matching.Query) map[string]streams.Candidate {
	out := map[string]streams.Candidate{}
	for _, q := range qs {
		if c, ok := f[q.ID]; ok {
			out[q.ID] = c
		}
	}
	return out
}

func todayFixture(id int64, home, away string) fixtures.Fixture {
	return fixtures.Fixture{
		ExternalID:  id,
		Slug:        fixtures.Slug(id),
		StartsAt:    time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC),
		Home:        fixtures.Team{Names: fixtures.NewNames(home, "")},
		Away:        fixtures.Team{Names: fixtures.NewNames(away, "")},
		Competition: fixtures.Competition{Names: fixtures.NewNames("Premier League", "")},
	}
}

func TestRefreshWritesPlaylist(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	path := filepath.Join(t.TempDir(), "today.m3u")
	warmer := &stubWarmer{chans: []channels.Channel{{StreamID: 1, Name: "Sky"}, {StreamID: 2, Name: "BT"}}}

	r := NewRefresher(path, RefreshDeps{
		Fixtures: &stubFixtures{list: []fixtures.Fixture{todayFixture(1, "Arsenal", "Chelsea"), todayFixture(2, "Leeds", "Hull")}},
		Channels: warmer,
		Source:   stubSource{},
		Finder:   stubFinder{"fd-1": {PlaybackURL: "http://panel/1.m3u8", Name: "Sky"}},
		Clock:    clock,
	})

	status, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, status.Fixtures)
	assert.Equal(t, 2, status.Channels)
	assert.Equal(t, 1, status.Candidates)
	assert.Equal(t, clock.Now(), status.LastRun)
	assert.Empty(t, status.Error)
	assert.EqualValues(t, 1, warmer.calls.Load())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tvg-id="fd-1"`)
	assert.Contains(t, string(data), "http://panel/1.m3u8")
	assert.NotContains(t, string(data), "fd-2")

	last, errMsg := r.LastRun()
	assert.Equal(t, clock.Now(), last)
	assert.Empty(t, errMsg)
}

func TestRefreshWithoutChannelSource(t *testing.T) {
	r := NewRefresher("", RefreshDeps{Fixtures: &stubFixtures{list: []fixtures.Fixture{todayFixture(1, "A", "B")}}})

	status, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, status.Fixtures)
	assert.Zero(t, status.Channels)
	assert.Zero(t, status.Candidates)
}

func TestRefreshPlaylistFailureKeepsLastSuccess(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	dir := t.TempDir()
	fx := &stubFixtures{}

	ok := NewRefresher(filepath.Join(dir, "today.m3u"), RefreshDeps{Fixtures: fx, Clock: clock})
	_, err := ok.Run(context.Background())
	require.NoError(t, err)

	bad := NewRefresher(filepath.Join(dir, "missing", "today.m3u"), RefreshDeps{Fixtures: fx, Clock: clock})
	_, err = bad.Run(context.Background())
	require.Error(t, err)

	last, errMsg := bad.LastRun()
	assert.True(t, last.IsZero())
	assert.NotEmpty(t, errMsg)
}

func TestLoopRunsOnTicks(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := clockwork.NewFakeClock()
	fx := &stubFixtures{}
	r := NewRefresher("", RefreshDeps{Fixtures: fx, Clock: clock})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Loop(ctx, time.Minute)
	}()

	require.Eventually(t, func() bool { return fx.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return fx.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}
