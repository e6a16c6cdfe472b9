// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ManuGH/matchcast/internal/metrics"
)

const maxBodyBytes = 16 << 20

// Request describes one upstream JSON call.
type Request struct {
	Provider string
	Op       string
	URL      string
	Header   http.Header
}

// GetJSON performs req and decodes the body into v. Any non-2xx status is
// an error; 404 maps to ErrNotFound.
func GetJSON(ctx context.Context, hc *http.Client, req Request, v any) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordProviderRequest(req.Provider, time.Since(start), err)
	}()

	hr, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return &Error{Provider: req.Provider, Op: req.Op, Sentinel: ErrUnavailable, Err: redact(err)}
	}
	for k, vals := range req.Header {
		for _, val := range vals {
			hr.Header.Add(k, val)
		}
	}
	hr.Header.Set("Accept", "application/json")
	hr.Header.Set("Cache-Control", "no-store")

	res, err := hc.Do(hr)
	if err != nil {
		return &Error{Provider: req.Provider, Op: req.Op, Sentinel: classifyTransport(ctx, err), Err: redact(err)}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return &Error{Provider: req.Provider, Op: req.Op, Status: res.StatusCode, Sentinel: statusSentinel(res.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return &Error{Provider: req.Provider, Op: req.Op, Status: res.StatusCode, Sentinel: classifyTransport(ctx, err), Err: redact(err)}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &Error{Provider: req.Provider, Op: req.Op, Status: res.StatusCode, Sentinel: ErrBadResponse, Err: err}
	}
	return nil
}

func statusSentinel(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrUpstreamStatus
	}
}
