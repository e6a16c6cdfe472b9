// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package footballdata

type rawTeam struct {
	ID    *int64 `json:"id"`
	Name  string `json:"name"`
	Crest string `json:"crest"`
}

type rawCompetition struct {
	ID     *int64 `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Emblem string `json:"emblem"`
}

type rawMatch struct {
	ID          int64          `json:"id"`
	Status      string         `json:"status"`
	UTCDate     string         `json:"utcDate"`
	HomeTeam    rawTeam        `json:"homeTeam"`
	AwayTeam    rawTeam        `json:"awayTeam"`
	Competition rawCompetition `json:"competition"`
	Referees    []struct {
		Name string `json:"name"`
	} `json:"referees"`
}

type matchesResponse struct {
	Matches []rawMatch `json:"matches"`
}

// matchResponse accepts both the wrapped {"match": {...}} shape and a bare
// match object.
type matchResponse struct {
	Match *rawMatch `json:"match"`
	rawMatch
}
