// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package providers

import (
	"context"

	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/resilience"
)

type guarded struct {
	Provider
	cb *resilience.CircuitBreaker
}

// Guard wraps p with a circuit breaker. Caller errors do not trip it.
func Guard(p Provider, cb *resilience.CircuitBreaker) Provider {
	if cb == nil {
		return p
	}
	return &guarded{Provider: p, cb: cb}
}

func (g *guarded) Fixtures(ctx context.Context, w Window) ([]fixtures.Fixture, error) {
	var out []fixtures.Fixture
	err := g.cb.Execute(func() error {
		var err error
		out, err = g.Provider.Fixtures(ctx, w)
		return err
	}, IsCallerError)
	return out, err
}

func (g *guarded) FixtureByID(ctx context.Context, id int64) (fixtures.Fixture, error) {
	var out fixtures.Fixture
	err := g.cb.Execute(func() error {
		var err error
		out, err = g.Provider.FixtureByID(ctx, id)
		return err
	}, IsCallerError)
	return out, err
}
