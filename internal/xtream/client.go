// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package xtream is a client for the Xtream Codes player API.
package xtream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/matchcast/internal/platform/httpx"
)

// Output container formats served by panels.
const (
	OutputHLS = "m3u8"
	OutputTS  = "ts"
)

// DefaultTimeout bounds a single player_api request.
const DefaultTimeout = 8 * time.Second

// maxBodyBytes bounds how much of a player_api response is read.
const maxBodyBytes = 64 << 20

// Config identifies a panel account.
type Config struct {
	Host     string
	Username string
	Password string
	Output   string
}

// Enabled reports whether host and credentials are all present.
func (c Config) Enabled() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// CacheKey identifies the account for caching. The password is left out so
// it never reaches logs or cache backends.
func (c Config) CacheKey() string {
	return c.Host + "|" + c.Username + "|" + c.output()
}

func (c Config) output() string {
	if c.Output == OutputTS {
		return OutputTS
	}
	return OutputHLS
}

// PlaybackURL builds the live playback URL for a stream id.
func (c Config) PlaybackURL(id StreamID) string {
	return fmt.Sprintf("%s/live/%s/%s/%d.%s", c.Host, c.Username, c.Password, int64(id), c.output())
}

// Client talks to one panel.
type Client struct {
	cfg  Config
	http *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default hardened client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a client. The host's trailing slashes are dropped.
func New(cfg Config, opts ...Option) *Client {
	cfg.Host = strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	c := &Client{
		cfg:  cfg,
		http: httpx.NewClient(DefaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the normalised account configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// LiveStreams lists every live stream of the account.
func (c *Client) LiveStreams(ctx context.Context) ([]LiveStream, error) {
	const op = "get_live_streams"
	if !c.cfg.Enabled() {
		return nil, &Error{Sentinel: ErrNotConfigured, Op: op}
	}

	body, err := c.get(ctx, op)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []LiveStream{}, nil
	}
	if trimmed[0] != '[' {
		// Panels answer rejected credentials with a user_info object.
		return nil, &Error{Sentinel: ErrBadResponse, Op: op, Err: errors.New("expected JSON array")}
	}

	var streams []LiveStream
	if err := json.Unmarshal(trimmed, &streams); err != nil {
		return nil, &Error{Sentinel: ErrBadResponse, Op: op, Err: err}
	}
	return streams, nil
}

func (c *Client) get(ctx context.Context, action string) ([]byte, error) {
	q := url.Values{}
	q.Set("username", c.cfg.Username)
	q.Set("password", c.cfg.Password)
	q.Set("action", action)
	u := c.cfg.Host + "/player_api.php?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Sentinel: ErrUpstreamUnavailable, Op: action, Err: errors.New("invalid host")}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Sentinel: classifyTransport(ctx, err), Op: action, Err: redact(err)}
	}
	defer func() { _ = res.Body.Close() }()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return nil, &Error{Sentinel: ErrUnauthorized, Op: action, Status: res.StatusCode}
	case res.StatusCode < 200 || res.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return nil, &Error{Sentinel: ErrUpstreamStatus, Op: action, Status: res.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Sentinel: classifyTransport(ctx, err), Op: action, Status: res.StatusCode, Err: redact(err)}
	}
	return body, nil
}

func classifyTransport(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}
	return ErrUpstreamUnavailable
}

// redact drops the request URL (which embeds credentials) from transport errors.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", strings.ToLower(ue.Op), ue.Err)
	}
	return err
}

// String renders an id for logs.
func (id StreamID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
