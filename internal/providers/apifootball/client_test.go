// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package apifootball

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/providers"
)

const listBody = `{
  "errors": [],
  "response": [
    {
      "fixture": {
        "id": 1035001,
        "referee": "M. Oliver",
        "timezone": "UTC",
        "date": "2025-03-01T20:00:00+00:00",
        "periods": {"first": 1740859200, "second": null},
        "venue": {"id": 556, "name": "Old Trafford", "city": "Manchester"},
        "status": {"long": "First Half", "short": "1H", "elapsed": 23}
      },
      "league": {"id": 39, "name": "Premier League", "country": "England", "logo": "https://x/39.png", "round": "Regular Season - 27"},
      "teams": {
        "home": {"id": 33, "name": "Manchester United", "logo": "https://x/33.png", "winner": null},
        "away": {"id": 40, "name": "Liverpool", "logo": "https://x/40.png", "winner": null}
      },
      "goals": {"home": 0, "away": 1}
    },
    {
      "fixture": {"id": 1035002, "date": "2025-03-01T17:30:00+00:00"},
      "league": {"name": "Premier League"},
      "teams": {"home": {"name": ""}, "away": {"name": "Chelsea"}}
    }
  ]
}`

func newServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(Config{Key: "k", Host: "api-football-v1.p.rapidapi.com", BaseURL: srv.URL + "/"}, WithHTTPClient(srv.Client()))
	return srv, c
}

func TestFixtures(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fixtures", r.URL.Path)
		assert.Equal(t, "2025-03-01", r.URL.Query().Get("date"))
		assert.Equal(t, "UTC", r.URL.Query().Get("timezone"))
		assert.Equal(t, "k", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, "api-football-v1.p.rapidapi.com", r.Header.Get("x-rapidapi-host"))
		_, _ = w.Write([]byte(listBody))
	})

	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	got, err := c.Fixtures(context.Background(), providers.Day(day))
	require.NoError(t, err)
	require.Len(t, got, 1)

	f := got[0]
	assert.Equal(t, int64(1035001), f.ExternalID)
	assert.Equal(t, "fd-1035001", f.Slug)
	assert.Equal(t, time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC), f.StartsAt)
	assert.Equal(t, fixtures.StatusInPlay, f.Status)
	assert.Equal(t, fixtures.SourceRapidAPI, f.Source)
	assert.Equal(t, "Manchester United", f.Home.En)
	assert.Equal(t, "Manchester United", f.Home.Ar)
	assert.Equal(t, "Liverpool", f.Away.En)
	assert.Equal(t, "Premier League", f.Competition.En)
	assert.Equal(t, int64(39), *f.Competition.ID)
	assert.Equal(t, "M. Oliver", f.Referee)
	assert.Equal(t, "Old Trafford", f.Venue.Name)
	assert.Equal(t, 0, *f.Score.Home)
	assert.Equal(t, 1, *f.Score.Away)
	assert.Equal(t, int64(1740859200), *f.Periods.First)
	assert.Nil(t, f.Periods.Second)
	assert.Equal(t, 23, *f.Elapsed)
	assert.Equal(t, "Regular Season - 27", f.Round)
	assert.Equal(t, "England", f.Country)
	assert.Equal(t, "1H", f.ShortStatus)
	assert.Equal(t, "First Half", f.LongStatus)
	assert.Nil(t, f.Home.Winner)
}

func TestFixturesEmptyResponseIsSuccess(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors": [], "response": []}`))
	})
	got, err := c.Fixtures(context.Background(), providers.Day(time.Now()))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFixturesErrorsMemberFails(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors": {"requests": "daily limit reached"}, "response": []}`))
	})
	_, err := c.Fixtures(context.Background(), providers.Day(time.Now()))
	assert.ErrorIs(t, err, providers.ErrBadResponse)
}

func TestFixturesStatusFails(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.Fixtures(context.Background(), providers.Day(time.Now()))
	assert.ErrorIs(t, err, providers.ErrUpstreamStatus)
}

func TestMissingKey(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(Config{Host: "h", BaseURL: srv.URL}, WithHTTPClient(srv.Client()))
	_, err := c.Fixtures(context.Background(), providers.Day(time.Now()))
	assert.ErrorIs(t, err, providers.ErrNoAPIKey)
	assert.Zero(t, calls.Load())
}

func TestFixtureByID(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "1035001" {
			_, _ = w.Write([]byte(listBody))
			return
		}
		_, _ = w.Write([]byte(`{"response": []}`))
	})

	f, err := c.FixtureByID(context.Background(), 1035001)
	require.NoError(t, err)
	assert.Equal(t, "Liverpool", f.Away.En)

	_, err = c.FixtureByID(context.Background(), 7)
	assert.ErrorIs(t, err, providers.ErrNotFound)
}

func TestNormalizeStatusFallsBackToLong(t *testing.T) {
	r := rawFixtureFrom(t, `{"fixture":{"id":5,"date":"2025-03-01T20:00:00Z","status":{"short":"XX","long":"Breaking"}},
		"league":{"name":"L"},"teams":{"home":{"name":"A"},"away":{"name":"B"}}}`)
	f, ok := toFixture(r)
	require.True(t, ok)
	assert.Equal(t, "BREAKING", f.Status)
	assert.Nil(t, f.Venue)
	require.NotNil(t, f.Score)
	assert.Nil(t, f.Score.Home)
}

func TestRateLimiterSpacesRequests(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"response": []}`))
	}))
	defer srv.Close()

	c := New(Config{Key: "k", Host: "h", BaseURL: srv.URL, RPS: 1}, WithHTTPClient(srv.Client()))
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w := providers.Around(time.Now(), 0, 2)
	_, err := c.Fixtures(ctx, w)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
