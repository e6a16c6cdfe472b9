// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package apifootball is a client for API-Football v3 served through RapidAPI.
package apifootball

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/platform/httpx"
	"github.com/ManuGH/matchcast/internal/providers"
)

const name = "apifootball"

// Config holds the RapidAPI credentials.
type Config struct {
	Key     string
	Host    string
	BaseURL string
	// RPS caps outgoing requests per second. Zero disables the limit.
	RPS float64
}

// Client talks to API-Football.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
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

// New creates a client. Requests carry the x-rapidapi-key/host headers.
func New(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	c := &Client{
		cfg:     cfg,
		http:    httpx.NewClient(12 * time.Second),
		limiter: rate.NewLimiter(limit, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() fixtures.Source { return fixtures.SourceRapidAPI }

// Fixtures lists the fixtures of every date in w, with kickoff times in UTC.
// A 200 with an empty response is a valid empty day.
func (c *Client) Fixtures(ctx context.Context, w providers.Window) ([]fixtures.Fixture, error) {
	out := []fixtures.Fixture{}
	for _, date := range w.Dates() {
		q := url.Values{}
		q.Set("date", date)
		q.Set("timezone", "UTC")
		env, err := c.get(ctx, "fixtures_by_date", q)
		if err != nil {
			return nil, err
		}
		for _, r := range env.Response {
			if f, ok := toFixture(r); ok {
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// FixtureByID fetches a single fixture.
func (c *Client) FixtureByID(ctx context.Context, id int64) (fixtures.Fixture, error) {
	const op = "fixture_by_id"
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))
	env, err := c.get(ctx, op, q)
	if err != nil {
		return fixtures.Fixture{}, err
	}
	if len(env.Response) > 0 {
		if f, ok := toFixture(env.Response[0]); ok {
			return f, nil
		}
	}
	return fixtures.Fixture{}, &providers.Error{Provider: name, Op: op, Sentinel: providers.ErrNotFound}
}

func (c *Client) get(ctx context.Context, op string, q url.Values) (envelope, error) {
	var env envelope
	if c.cfg.Key == "" || c.cfg.Host == "" {
		return env, &providers.Error{Provider: name, Op: op, Sentinel: providers.ErrNoAPIKey}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		sentinel := providers.ErrTimeout
		if errors.Is(err, context.Canceled) {
			sentinel = context.Canceled
		}
		return env, &providers.Error{Provider: name, Op: op, Sentinel: sentinel, Err: err}
	}

	err := providers.GetJSON(ctx, c.http, providers.Request{
		Provider: name,
		Op:       op,
		URL:      c.cfg.BaseURL + "/fixtures?" + q.Encode(),
		Header: http.Header{
			"x-rapidapi-key":  []string{c.cfg.Key},
			"x-rapidapi-host": []string{c.cfg.Host},
		},
	}, &env)
	if err != nil {
		return env, err
	}
	if env.hasErrors() {
		return env, &providers.Error{Provider: name, Op: op, Sentinel: providers.ErrBadResponse,
			Err: errors.New(string(env.Errors))}
	}
	return env, nil
}
