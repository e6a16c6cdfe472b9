// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package footballdata is a client for the football-data.org v4 API.
package footballdata

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/platform/httpx"
	"github.com/ManuGH/matchcast/internal/providers"
)

const name = "footballdata"

// Config holds the football-data.org credentials.
type Config struct {
	Key     string
	BaseURL string
}

// Client talks to football-data.org.
type Client struct {
	cfg  Config
	http *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a client authenticating with X-Auth-Token.
func New(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	c := &Client{cfg: cfg, http: httpx.NewClient(12 * time.Second)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() fixtures.Source { return fixtures.SourceFootballData }

// Fixtures lists matches in w across all competitions of the plan.
func (c *Client) Fixtures(ctx context.Context, w providers.Window) ([]fixtures.Fixture, error) {
	return c.Matches(ctx, w, nil)
}

// Matches lists matches in w, restricted to competition codes when given.
func (c *Client) Matches(ctx context.Context, w providers.Window, competitions []string) ([]fixtures.Fixture, error) {
	q := url.Values{}
	q.Set("dateFrom", w.FromDate())
	q.Set("dateTo", w.ToDate())
	if len(competitions) > 0 {
		q.Set("competitions", strings.Join(competitions, ","))
	}

	var res matchesResponse
	if err := c.get(ctx, "matches", "/matches?"+q.Encode(), &res); err != nil {
		return nil, err
	}
	out := make([]fixtures.Fixture, 0, len(res.Matches))
	for _, m := range res.Matches {
		if f, ok := toFixture(m); ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// FixtureByID fetches one match.
func (c *Client) FixtureByID(ctx context.Context, id int64) (fixtures.Fixture, error) {
	const op = "match_by_id"
	var res matchResponse
	if err := c.get(ctx, op, "/matches/"+strconv.FormatInt(id, 10), &res); err != nil {
		return fixtures.Fixture{}, err
	}
	m := res.rawMatch
	if res.Match != nil {
		m = *res.Match
	}
	f, ok := toFixture(m)
	if !ok {
		return fixtures.Fixture{}, &providers.Error{Provider: name, Op: op, Sentinel: providers.ErrNotFound}
	}
	return f, nil
}

func (c *Client) get(ctx context.Context, op, path string, v any) error {
	if c.cfg.Key == "" {
		return &providers.Error{Provider: name, Op: op, Sentinel: providers.ErrNoAPIKey}
	}
	return providers.GetJSON(ctx, c.http, providers.Request{
		Provider: name,
		Op:       op,
		URL:      c.cfg.BaseURL + path,
		Header:   http.Header{"X-Auth-Token": []string{c.cfg.Key}},
	}, v)
}
