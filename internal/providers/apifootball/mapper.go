// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package apifootball

import (
	"time"

	"github.com/ManuGH/matchcast/internal/fixtures"
)

// toFixture maps one API-Football fixture. Entries without an id, kickoff,
// team names or league name are dropped.
func toFixture(r rawFixture) (fixtures.Fixture, bool) {
	f, l, t := r.Fixture, r.League, r.Teams
	if f == nil || f.ID == 0 || f.Date == "" || l == nil || l.Name == "" || t == nil ||
		t.Home == nil || t.Home.Name == "" || t.Away == nil || t.Away.Name == "" {
		return fixtures.Fixture{}, false
	}
	startsAt, err := time.Parse(time.RFC3339, f.Date)
	if err != nil {
		return fixtures.Fixture{}, false
	}

	var short, long string
	var elapsed *int
	if f.Status != nil {
		short, long, elapsed = f.Status.Short, f.Status.Long, f.Status.Elapsed
	}

	out := fixtures.Fixture{
		ExternalID: f.ID,
		Slug:       fixtures.Slug(f.ID),
		StartsAt:   startsAt.UTC(),
		Status:     fixtures.NormalizeAPIFootballStatus(short, long),
		Source:     fixtures.SourceRapidAPI,
		Home:       team(t.Home),
		Away:       team(t.Away),
		Competition: fixtures.Competition{
			Names:   fixtures.NewNames(l.Name, ""),
			ID:      l.ID,
			LogoURL: l.Logo,
		},
		Referee:     f.Referee,
		Timezone:    f.Timezone,
		Elapsed:     elapsed,
		Round:       l.Round,
		Country:     l.Country,
		ShortStatus: short,
		LongStatus:  long,
		Score:       &fixtures.Score{},
	}
	if r.Goals != nil {
		out.Score.Home, out.Score.Away = r.Goals.Home, r.Goals.Away
	}
	if f.Venue != nil {
		out.Venue = &fixtures.Venue{ID: f.Venue.ID, Name: f.Venue.Name, City: f.Venue.City}
	}
	if f.Periods != nil {
		out.Periods = &fixtures.Periods{First: f.Periods.First, Second: f.Periods.Second}
	}
	return out, true
}

func team(t *rawTeam) fixtures.Team {
	return fixtures.Team{
		Names:   fixtures.NewNames(t.Name, ""),
		ID:      t.ID,
		LogoURL: t.Logo,
		Winner:  t.Winner,
	}
}
