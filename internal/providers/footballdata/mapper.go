// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package footballdata

import (
	"time"

	"github.com/ManuGH/matchcast/internal/fixtures"
)

// toFixture maps a football-data.org match. The status passes through
// as reported; enrichment fields stay empty.
func toFixture(m rawMatch) (fixtures.Fixture, bool) {
	if m.ID == 0 || m.HomeTeam.Name == "" || m.AwayTeam.Name == "" || m.Competition.Name == "" {
		return fixtures.Fixture{}, false
	}
	startsAt, err := time.Parse(time.RFC3339, m.UTCDate)
	if err != nil {
		return fixtures.Fixture{}, false
	}
	status := m.Status
	if status == "" {
		status = fixtures.StatusTimed
	}

	f := fixtures.Fixture{
		ExternalID: m.ID,
		Slug:       fixtures.Slug(m.ID),
		StartsAt:   startsAt.UTC(),
		Status:     status,
		Source:     fixtures.SourceFootballData,
		Home:       team(m.HomeTeam),
		Away:       team(m.AwayTeam),
		Competition: fixtures.Competition{
			Names:   fixtures.NewNames(m.Competition.Name, ""),
			ID:      m.Competition.ID,
			LogoURL: m.Competition.Emblem,
		},
		Timezone: "UTC",
	}
	if len(m.Referees) > 0 {
		f.Referee = m.Referees[0].Name
	}
	return f, true
}

func team(t rawTeam) fixtures.Team {
	return fixtures.Team{
		Names:   fixtures.NewNames(t.Name, ""),
		ID:      t.ID,
		LogoURL: t.Crest,
	}
}
