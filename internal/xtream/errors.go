// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package xtream

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotConfigured       = errors.New("xtream: host or credentials missing")
	ErrUnauthorized        = errors.New("xtream: credentials rejected")
	ErrUpstreamUnavailable = errors.New("xtream: host unreachable or transport failure")
	ErrUpstreamStatus      = errors.New("xtream: unexpected HTTP status")
	ErrBadResponse         = errors.New("xtream: invalid response format or malformed data")
	ErrTimeout             = errors.New("xtream: request timed out")
)

// Error wraps a sentinel error with request context. It never carries
// credentials: Op is the player_api action, not the URL.
type Error struct {
	Sentinel error
	Op       string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Sentinel)
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
