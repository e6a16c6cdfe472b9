// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package translit

import (
	"strings"
	"sync/atomic"

	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/normalize"
)

// Lookup resolves Arabic display names. Unmapped names pass through unchanged.
type Lookup interface {
	TeamAr(name string) string
	CompetitionAr(name string) string
}

// Apply fills the Arabic names of every fixture in place.
func Apply(l Lookup, list []fixtures.Fixture) {
	if l == nil {
		return
	}
	for i := range list {
		f := &list[i]
		f.Home.Names = fixtures.NewNames(f.Home.En, l.TeamAr(f.Home.En))
		f.Away.Names = fixtures.NewNames(f.Away.En, l.TeamAr(f.Away.En))
		f.Competition.Names = fixtures.NewNames(f.Competition.En, l.CompetitionAr(f.Competition.En))
	}
}

// Source holds the active tables and can swap them atomically.
type Source struct {
	cur  atomic.Pointer[Tables]
	path string
}

// NewSource returns a source serving t.
func NewSource(t Tables) *Source {
	s := &Source{}
	s.Replace(t)
	return s
}

// Tables returns the active tables. Callers must not modify them.
func (s *Source) Tables() *Tables {
	return s.cur.Load()
}

// Replace swaps in t.
func (s *Source) Replace(t Tables) {
	s.cur.Store(&t)
}

// Exact looks names up in the team and competition tables only.
type Exact struct{ src *Source }

// NewExact returns an exact-match lookup over src.
func NewExact(src *Source) Exact { return Exact{src: src} }

func (e Exact) TeamAr(name string) string {
	if v, ok := e.src.Tables().Teams[normalize.Key(name)]; ok {
		return v
	}
	return name
}

func (e Exact) CompetitionAr(name string) string {
	if v, ok := e.src.Tables().Competitions[normalize.Key(name)]; ok {
		return v
	}
	return name
}

// Composer falls back to word-by-word composition. A name that already
// contains Arabic is returned as is; otherwise every word must be known or
// the name passes through.
type Composer struct{ src *Source }

// NewComposer returns a composing lookup over src.
func NewComposer(src *Source) Composer { return Composer{src: src} }

func (c Composer) TeamAr(name string) string {
	return c.resolve(name, c.src.Tables().Teams)
}

func (c Composer) CompetitionAr(name string) string {
	return c.resolve(name, c.src.Tables().Competitions)
}

func (c Composer) resolve(name string, exact map[string]string) string {
	if name == "" || HasArabic(name) {
		return name
	}
	t := c.src.Tables()
	key := normalize.Key(name)
	if v, ok := t.Competitions[key]; ok {
		return v
	}
	if v, ok := exact[key]; ok {
		return v
	}
	parts := splitWords(name)
	if len(parts) == 0 {
		return name
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v, ok := t.Words[strings.ToLower(p)]
		if !ok {
			return name
		}
		out = append(out, v)
	}
	return strings.Join(out, " ")
}
