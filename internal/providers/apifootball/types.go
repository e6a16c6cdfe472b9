// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package apifootball

import (
	"bytes"
	"encoding/json"
)

type envelope struct {
	Errors   json.RawMessage `json:"errors"`
	Response []rawFixture    `json:"response"`
}

// hasErrors reports a non-empty "errors" member. The API answers quota and
// key problems with HTTP 200 and an errors object.
func (e envelope) hasErrors() bool {
	b := bytes.TrimSpace(e.Errors)
	switch string(b) {
	case "", "null", "[]", "{}":
		return false
	}
	return true
}

type rawFixture struct {
	Fixture *struct {
		ID       int64  `json:"id"`
		Timezone string `json:"timezone"`
		Date     string `json:"date"`
		Referee  string `json:"referee"`
		Status   *struct {
			Long    string `json:"long"`
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
		Venue *struct {
			ID   *int64 `json:"id"`
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
		Periods *struct {
			First  *int64 `json:"first"`
			Second *int64 `json:"second"`
		} `json:"periods"`
	} `json:"fixture"`
	League *struct {
		ID      *int64 `json:"id"`
		Name    string `json:"name"`
		Logo    string `json:"logo"`
		Country string `json:"country"`
		Round   string `json:"round"`
	} `json:"league"`
	Teams *struct {
		Home *rawTeam `json:"home"`
		Away *rawTeam `json:"away"`
	} `json:"teams"`
	Goals *struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type rawTeam struct {
	ID     *int64 `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}
