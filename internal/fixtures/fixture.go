// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package fixtures holds the provider-neutral football fixture model.
package fixtures

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/matchcast/internal/matching"
)

// Source names the provider a fixture came from.
type Source string

const (
	SourceRapidAPI     Source = "rapidapi"
	SourceFootballData Source = "football-data"
	SourceStore        Source = "db"
)

// Names carries the English and Arabic display names.
type Names struct {
	En string `json:"nameEn"`
	Ar string `json:"nameAr"`
}

// NewNames builds Names; an empty Arabic name falls back to English.
func NewNames(en, ar string) Names {
	if strings.TrimSpace(ar) == "" {
		ar = en
	}
	return Names{En: en, Ar: ar}
}

// Team is one side of a fixture.
type Team struct {
	Names
	ID      *int64 `json:"id,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
	Winner  *bool  `json:"winner,omitempty"`
}

// Competition is the league or cup a fixture belongs to.
type Competition struct {
	Names
	ID      *int64 `json:"id,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// Venue is where a fixture is played.
type Venue struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	City string `json:"city,omitempty"`
}

// Score is the current or final score.
type Score struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Periods holds the kickoff timestamps (unix seconds) of both halves.
type Periods struct {
	First  *int64 `json:"first"`
	Second *int64 `json:"second"`
}

// Fixture is a single match.
type Fixture struct {
	ExternalID  int64       `json:"externalId"`
	Slug        string      `json:"slug"`
	StartsAt    time.Time   `json:"startsAt"`
	Status      string      `json:"status"`
	Source      Source      `json:"apiSource"`
	Home        Team        `json:"homeTeam"`
	Away        Team        `json:"awayTeam"`
	Competition Competition `json:"competition"`

	Referee     string   `json:"referee,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
	Venue       *Venue   `json:"venue,omitempty"`
	Score       *Score   `json:"score,omitempty"`
	Periods     *Periods `json:"periods,omitempty"`
	Elapsed     *int     `json:"elapsed,omitempty"`
	Round       string   `json:"leagueRound,omitempty"`
	Country     string   `json:"leagueCountry,omitempty"`
	ShortStatus string   `json:"shortStatus,omitempty"`
	LongStatus  string   `json:"longStatus,omitempty"`
}

// Query returns the matching query for the fixture, keyed by slug.
func (f Fixture) Query() matching.Query {
	return matching.Query{
		ID:          f.Slug,
		Home:        f.Home.En,
		Away:        f.Away.En,
		Competition: f.Competition.En,
	}
}

// LocalDate returns the kickoff calendar date in loc.
func (f Fixture) LocalDate(loc *time.Location) string {
	return DateKey(f.StartsAt, loc)
}

// DateKey formats t as YYYY-MM-DD in loc (UTC when nil).
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(time.DateOnly)
}

// Queries maps fixtures to matching queries.
func Queries(list []Fixture) []matching.Query {
	out := make([]matching.Query, 0, len(list))
	for _, f := range list {
		out = append(out, f.Query())
	}
	return out
}

const slugPrefix = "fd-"

// ErrInvalidSlug is returned by ParseSlug for anything but fd-<digits>.
var ErrInvalidSlug = errors.New("fixtures: invalid slug")

// Slug returns the public slug of an external id.
func Slug(id int64) string {
	return slugPrefix + strconv.FormatInt(id, 10)
}

// ParseSlug extracts the external id from a fd-<digits> slug.
func ParseSlug(slug string) (int64, error) {
	digits, ok := strings.CutPrefix(slug, slugPrefix)
	if !ok || digits == "" {
		return 0, ErrInvalidSlug
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, ErrInvalidSlug
		}
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, ErrInvalidSlug
	}
	return id, nil
}
