// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package xtream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{Host: srv.URL + "/", Username: "alice", Password: "s3cret", Output: "m3u8"})
}

func TestLiveStreams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/player_api.php", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("username"))
		assert.Equal(t, "s3cret", r.URL.Query().Get("password"))
		assert.Equal(t, "get_live_streams", r.URL.Query().Get("action"))
		_, _ = w.Write([]byte(`[
			{"stream_id": 101, "name": "beIN Sports 1", "stream_icon": "http://i/1.png", "category_id": "5"},
			{"stream_id": "202", "name": null, "stream_icon": null, "category_id": 7},
			{"stream_id": null, "name": "broken"}
		]`))
	})

	streams, err := c.LiveStreams(context.Background())
	require.NoError(t, err)
	require.Len(t, streams, 3)

	assert.Equal(t, LiveStream{StreamID: 101, Name: "beIN Sports 1", StreamIcon: "http://i/1.png", CategoryID: "5"}, streams[0])
	assert.Equal(t, LiveStream{StreamID: 202, CategoryID: "7"}, streams[1])
	assert.Equal(t, StreamID(0), streams[2].StreamID)
}

func TestLiveStreamsNullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	})
	streams, err := c.LiveStreams(context.Background())
	require.NoError(t, err)
	assert.Empty(t, streams)
	assert.NotNil(t, streams)
}

func TestLiveStreamsErrors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		sentinel error
		status   int
	}{
		{
			name:     "server error",
			handler:  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			sentinel: ErrUpstreamStatus,
			status:   http.StatusBadGateway,
		},
		{
			name:     "unauthorized",
			handler:  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) },
			sentinel: ErrUnauthorized,
			status:   http.StatusForbidden,
		},
		{
			name: "auth object instead of array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"user_info":{"auth":0}}`))
			},
			sentinel: ErrBadResponse,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[{"stream_id": 1,`))
			},
			sentinel: ErrBadResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.LiveStreams(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)

			var xe *Error
			require.True(t, errors.As(err, &xe))
			assert.Equal(t, tt.status, xe.Status)
			assert.NotContains(t, err.Error(), "s3cret")
		})
	}
}

func TestLiveStreamsTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.LiveStreams(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
	assert.NotContains(t, err.Error(), "s3cret")
}

func TestLiveStreamsNotConfigured(t *testing.T) {
	_, err := New(Config{Host: "http://panel"}).LiveStreams(context.Background())
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestConfigURLs(t *testing.T) {
	c := New(Config{Host: " http://panel:8080// ", Username: "u", Password: "p", Output: "ts"})
	cfg := c.Config()

	assert.Equal(t, "http://panel:8080", cfg.Host)
	assert.Equal(t, "http://panel:8080|u|ts", cfg.CacheKey())
	assert.Equal(t, "http://panel:8080/live/u/p/42.ts", cfg.PlaybackURL(42))

	hls := Config{Host: "http://panel", Username: "u", Password: "p", Output: "flv"}
	assert.Equal(t, "http://panel/live/u/p/7.m3u8", hls.PlaybackURL(7))
	assert.Equal(t, "http://panel|u|m3u8", hls.CacheKey())
}
