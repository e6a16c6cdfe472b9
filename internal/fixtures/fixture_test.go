// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package fixtures

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/matchcast/internal/matching"
)

func TestParseSlug(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"fd-123", 123, false},
		{"fd-0", 0, false},
		{"fd-", 0, true},
		{"fd-12a", 0, true},
		{"fd--1", 0, true},
		{"xx-12", 0, true},
		{"fd-99999999999999999999", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSlug(tt.in)
		if tt.wantErr {
			assert.True(t, errors.Is(err, ErrInvalidSlug), tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "fd-42", Slug(42))
}

func TestNewNamesFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, Names{En: "Chelsea", Ar: "Chelsea"}, NewNames("Chelsea", ""))
	assert.Equal(t, Names{En: "Chelsea", Ar: "تشيلسي"}, NewNames("Chelsea", "تشيلسي"))
}

func TestFixtureQuery(t *testing.T) {
	f := Fixture{
		Slug:        "fd-7",
		Home:        Team{Names: NewNames("Arsenal", "أرسنال")},
		Away:        Team{Names: NewNames("Chelsea", "")},
		Competition: Competition{Names: NewNames("Premier League", "")},
	}
	assert.Equal(t, matching.Query{ID: "fd-7", Home: "Arsenal", Away: "Chelsea", Competition: "Premier League"}, f.Query())
	assert.Len(t, Queries([]Fixture{f, f}), 2)
}

func TestLocalDate(t *testing.T) {
	cairo := time.FixedZone("EET", 2*60*60)

	f := Fixture{StartsAt: time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)}
	assert.Equal(t, "2025-03-01", f.LocalDate(time.UTC))
	assert.Equal(t, "2025-03-02", f.LocalDate(cairo))
	assert.Equal(t, "2025-03-01", DateKey(f.StartsAt, nil))
}

func TestFixtureJSONShape(t *testing.T) {
	f := Fixture{
		ExternalID: 1,
		Slug:       "fd-1",
		StartsAt:   time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC),
		Status:     StatusTimed,
		Source:     SourceRapidAPI,
		Home:       Team{Names: NewNames("Arsenal", "أرسنال")},
	}
	raw, err := json.Marshal(f)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	home := m["homeTeam"].(map[string]any)
	assert.Equal(t, "Arsenal", home["nameEn"])
	assert.Equal(t, "أرسنال", home["nameAr"])
	assert.Equal(t, "rapidapi", m["apiSource"])
	assert.Equal(t, "2025-03-01T20:00:00Z", m["startsAt"])
	assert.NotContains(t, m, "venue")
}
