// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNoAPIKey       = errors.New("provider: api key not configured")
	ErrUnauthorized   = errors.New("provider: api key rejected")
	ErrRateLimited    = errors.New("provider: quota exceeded")
	ErrNotFound       = errors.New("provider: fixture not found")
	ErrUpstreamStatus = errors.New("provider: unexpected HTTP status")
	ErrBadResponse    = errors.New("provider: invalid response format or malformed data")
	ErrTimeout        = errors.New("provider: request timed out")
	ErrUnavailable    = errors.New("provider: host unreachable or transport failure")
)

// Error wraps a sentinel error with request context. It never carries the
// request URL or headers.
type Error struct {
	Provider string
	Op       string
	Status   int
	Sentinel error
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Sentinel
}

// IsCallerError reports errors caused by the caller rather than the
// upstream: cancellation, missing configuration and unknown ids.
func IsCallerError(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, ErrNoAPIKey) ||
		errors.Is(err, ErrNotFound)
}

func classifyTransport(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}
	return ErrUnavailable
}

// redact drops the request URL from transport errors.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", strings.ToLower(ue.Op), ue.Err)
	}
	return err
}
