// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fail() error { return errBoom }
func ok() error   { return nil }

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cb := NewCircuitBreaker("test", 2, 30*time.Second, WithClock(clock))

	assert.ErrorIs(t, cb.Execute(fail, nil), errBoom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(fail, nil), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil }, nil)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Minute, WithClock(clockwork.NewFakeClock()))

	_ = cb.Execute(fail, nil)
	require.NoError(t, cb.Execute(ok, nil))
	_ = cb.Execute(fail, nil)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cb := NewCircuitBreaker("test", 1, 30*time.Second, WithClock(clock))

	_ = cb.Execute(fail, nil)
	require.Equal(t, StateOpen, cb.State())

	clock.Advance(29 * time.Second)
	assert.ErrorIs(t, cb.Execute(ok, nil), ErrCircuitOpen)

	clock.Advance(time.Second)
	// A failed probe re-opens.
	assert.ErrorIs(t, cb.Execute(fail, nil), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	clock.Advance(30 * time.Second)
	require.NoError(t, cb.Execute(ok, nil))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_SingleProbe(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cb := NewCircuitBreaker("test", 1, time.Second, WithClock(clock))
	_ = cb.Execute(fail, nil)
	clock.Advance(time.Second)

	inProbe := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- cb.Execute(func() error {
			close(inProbe)
			<-release
			return nil
		}, nil)
	}()
	<-inProbe

	assert.ErrorIs(t, cb.Execute(ok, nil), ErrCircuitOpen)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_IgnoredErrorsDoNotCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, time.Minute, WithClock(clockwork.NewFakeClock()))

	ignore := func(err error) bool { return errors.Is(err, context.Canceled) }
	err := cb.Execute(func() error { return context.Canceled }, ignore)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
}
