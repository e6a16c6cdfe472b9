// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ManuGH/matchcast/internal/api/middleware"
	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/playlist"
	"github.com/ManuGH/matchcast/internal/streams"
	"github.com/ManuGH/matchcast/internal/telemetry"
)

const defaultLocale = "ar"

type fixtureView struct {
	fixtures.Fixture
	StatusLabel string `json:"statusLabel"`
}

type fixturesResponse struct {
	Date     string        `json:"date"`
	Count    int           `json:"count"`
	Fixtures []fixtureView `json:"fixtures"`
}

type streamsResponse struct {
	Date    string                       `json:"date"`
	Streams map[string]streams.Candidate `json:"streams"`
}

type availableResponse struct {
	Date string   `json:"date"`
	IDs  []string `json:"ids"`
}

func locale(r *http.Request) string {
	if l := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("locale"))); l != "" {
		return l
	}
	return defaultLocale
}

func view(f fixtures.Fixture, loc string) fixtureView {
	return fixtureView{Fixture: f, StatusLabel: fixtures.StatusLabel(f.Status, loc)}
}

func (s *Server) handleTodayFixtures(w http.ResponseWriter, r *http.Request) {
	list := s.deps.Fixtures.TodayFixtures(r.Context())
	loc := locale(r)
	out := fixturesResponse{
		Date:     s.deps.Fixtures.Today(),
		Count:    len(list),
		Fixtures: make([]fixtureView, 0, len(list)),
	}
	for _, f := range list {
		out.Fixtures = append(out.Fixtures, view(f, loc))
	}
	middleware.AddSpanAttributes(r, attribute.Int(telemetry.FixtureCountKey, len(list)))
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFixtureBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	id, err := fixtures.ParseSlug(slug)
	if err != nil {
		writeNotFound(w)
		return
	}
	logger := log.WithContext(r.Context(), s.logger)

	if s.deps.Store != nil {
		f, ok, err := s.deps.Store.FixtureBySlug(r.Context(), slug)
		switch {
		case err != nil:
			logger.Warn().Err(err).Str(log.FieldFixtureID, slug).Msg("fixture store lookup failed")
		case ok:
			writeJSON(w, http.StatusOK, view(f, locale(r)))
			return
		}
	}

	f, ok := s.deps.Fixtures.FixtureByID(r.Context(), id)
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, view(f, locale(r)))
}

// todayStreams shares one channel match pass between concurrent callers.
func (s *Server) todayStreams(r *http.Request) (string, []fixtures.Fixture, map[string]streams.Candidate) {
	list := s.deps.Fixtures.TodayFixtures(r.Context())
	date := s.deps.Fixtures.Today()
	v, _, _ := s.group.Do("streams:"+date, func() (any, error) {
		return s.deps.Streams.FindBestStreams(context.WithoutCancel(r.Context()), fixtures.Queries(list)), nil
	})
	return date, list, v.(map[string]streams.Candidate)
}

func (s *Server) handleTodayStreams(w http.ResponseWriter, r *http.Request) {
	date, _, cands := s.todayStreams(r)
	middleware.AddSpanAttributes(r, attribute.Int(telemetry.CandidateKey, len(cands)))
	writeJSON(w, http.StatusOK, streamsResponse{Date: date, Streams: cands})
}

func (s *Server) handleTodayAvailable(w http.ResponseWriter, r *http.Request) {
	list := s.deps.Fixtures.TodayFixtures(r.Context())
	ids := s.deps.Streams.AvailableMatchIDs(r.Context(), fixtures.Queries(list))
	writeJSON(w, http.StatusOK, availableResponse{Date: s.deps.Fixtures.Today(), IDs: ids})
}

func (s *Server) handleBestStream(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	home := strings.TrimSpace(q.Get("home"))
	away := strings.TrimSpace(q.Get("away"))
	if home == "" || away == "" {
		writeBadRequest(w, "home and away are required")
		return
	}
	c, ok := s.deps.Streams.FindBestStream(r.Context(), home, away, strings.TrimSpace(q.Get("competition")))
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleTodayPlaylist(w http.ResponseWriter, r *http.Request) {
	_, list, cands := s.todayStreams(r)
	items := playlist.Build(list, cands)

	var buf bytes.Buffer
	if err := playlist.WriteM3U(&buf, items); err != nil {
		logger := log.WithContext(r.Context(), s.logger)
		logger.Error().Err(err).Msg("render playlist")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal_error"})
		return
	}
	w.Header().Set("Content-Type", "audio/x-mpegurl")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}
