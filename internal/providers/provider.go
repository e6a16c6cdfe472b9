// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package providers defines the fixture provider contract shared by the
// upstream football APIs.
package providers

import (
	"context"
	"time"

	"github.com/ManuGH/matchcast/internal/fixtures"
)

// Provider fetches fixtures from one upstream API. Names are returned
// untranslated (Ar == En).
type Provider interface {
	Name() fixtures.Source
	Fixtures(ctx context.Context, w Window) ([]fixtures.Fixture, error)
	FixtureByID(ctx context.Context, id int64) (fixtures.Fixture, error)
}

// Window is an inclusive range of calendar dates. Dates are taken in the
// location of From.
type Window struct {
	From time.Time
	To   time.Time
}

// Day returns the window covering the date of t only.
func Day(t time.Time) Window {
	return Window{From: t, To: t}
}

// Around returns [t-before, t+after] in days.
func Around(t time.Time, before, after int) Window {
	return Window{From: t.AddDate(0, 0, -before), To: t.AddDate(0, 0, after)}
}

// FromDate formats the first day as YYYY-MM-DD.
func (w Window) FromDate() string { return w.From.Format(time.DateOnly) }

// ToDate formats the last day as YYYY-MM-DD in the location of From.
func (w Window) ToDate() string { return w.To.In(w.From.Location()).Format(time.DateOnly) }

// Dates lists every day of the window. An inverted window yields nothing.
func (w Window) Dates() []string {
	loc := w.From.Location()
	from := w.From
	to := w.To.In(loc)
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)

	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(time.DateOnly))
	}
	return out
}
