// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package store persists fixtures, teams and competitions in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ManuGH/matchcast/internal/fixtures"
	"github.com/ManuGH/matchcast/internal/persistence/sqlite"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS competitions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id INTEGER UNIQUE,
	name_en TEXT NOT NULL,
	name_ar TEXT NOT NULL,
	logo_url TEXT,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_competitions_name ON competitions(name_en);

CREATE TABLE IF NOT EXISTS teams (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id INTEGER UNIQUE,
	name_en TEXT NOT NULL,
	name_ar TEXT NOT NULL,
	logo_url TEXT,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_teams_name ON teams(name_en);

CREATE TABLE IF NOT EXISTS matches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id INTEGER NOT NULL UNIQUE,
	slug TEXT NOT NULL UNIQUE,
	starts_at TEXT NOT NULL,
	status TEXT NOT NULL,
	home_team_id INTEGER NOT NULL REFERENCES teams(id),
	away_team_id INTEGER NOT NULL REFERENCES teams(id),
	competition_id INTEGER NOT NULL REFERENCES competitions(id),
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matches_starts_at ON matches(starts_at);
`

// Result counts the matches written by an upsert.
type Result struct {
	Created int
	Updated int
}

// Store is the SQLite fixture store.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Open opens (and migrates) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlite.Open(path, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(ctx, db, schemaVersion, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("fixture store: migration failed: %w", err)
	}
	return &Store{db: db, clock: clockwork.NewRealClock()}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HealthCheck runs a quick integrity check.
func (s *Store) HealthCheck(ctx context.Context) error {
	return sqlite.QuickCheck(ctx, s.db)
}

// SaveFixtures upserts list, discarding the counts.
func (s *Store) SaveFixtures(ctx context.Context, list []fixtures.Fixture) error {
	_, err := s.Upsert(ctx, list)
	return err
}

// Upsert writes list in one transaction. Teams and competitions are matched
// by external id, or by English name when the id is unknown.
func (s *Store) Upsert(ctx context.Context, list []fixtures.Fixture) (Result, error) {
	var res Result
	if len(list) == 0 {
		return res, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.clock.Now().UTC().Format(time.RFC3339)
	w := &writer{tx: tx, now: now, teams: map[string]int64{}, comps: map[string]int64{}}

	for _, f := range list {
		compID, err := w.entity(ctx, "competitions", w.comps, f.Competition.ID, f.Competition.Names, f.Competition.LogoURL)
		if err != nil {
			return Result{}, err
		}
		homeID, err := w.entity(ctx, "teams", w.teams, f.Home.ID, f.Home.Names, f.Home.LogoURL)
		if err != nil {
			return Result{}, err
		}
		awayID, err := w.entity(ctx, "teams", w.teams, f.Away.ID, f.Away.Names, f.Away.LogoURL)
		if err != nil {
			return Result{}, err
		}
		created, err := w.match(ctx, f, homeID, awayID, compID)
		if err != nil {
			return Result{}, err
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return Result{}, err
	}
	return res, nil
}

type writer struct {
	tx    *sql.Tx
	now   string
	teams map[string]int64
	comps map[string]int64
}

func entityKey(extID *int64, names fixtures.Names) string {
	if extID != nil {
		return fmt.Sprintf("ext:%d", *extID)
	}
	return "name:" + names.En
}

// entity upserts one team or competition row and returns its id. table is
// one of the two constant table names.
func (w *writer) entity(ctx context.Context, table string, seen map[string]int64, extID *int64, names fixtures.Names, logo string) (int64, error) {
	key := entityKey(extID, names)
	if id, ok := seen[key]; ok {
		return id, nil
	}

	var id int64
	if extID != nil {
		q := `INSERT INTO ` + table + ` (external_id, name_en, name_ar, logo_url, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			name_en = excluded.name_en,
			name_ar = excluded.name_ar,
			logo_url = excluded.logo_url,
			updated_at = excluded.updated_at
		RETURNING id`
		if err := w.tx.QueryRowContext(ctx, q, *extID, names.En, names.Ar, nullable(logo), w.now).Scan(&id); err != nil {
			return 0, fmt.Errorf("upsert %s %d: %w", table, *extID, err)
		}
		seen[key] = id
		return id, nil
	}

	err := w.tx.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE name_en = ? ORDER BY id LIMIT 1`, names.En).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		q := `INSERT INTO ` + table + ` (name_en, name_ar, logo_url, updated_at) VALUES (?, ?, ?, ?) RETURNING id`
		if err := w.tx.QueryRowContext(ctx, q, names.En, names.Ar, nullable(logo), w.now).Scan(&id); err != nil {
			return 0, fmt.Errorf("insert %s %q: %w", table, names.En, err)
		}
	case err != nil:
		return 0, err
	default:
		q := `UPDATE ` + table + ` SET name_ar = ?, logo_url = ?, updated_at = ? WHERE id = ?`
		if _, err := w.tx.ExecContext(ctx, q, names.Ar, nullable(logo), w.now, id); err != nil {
			return 0, fmt.Errorf("update %s %q: %w", table, names.En, err)
		}
	}
	seen[key] = id
	return id, nil
}

func (w *writer) match(ctx context.Context, f fixtures.Fixture, homeID, awayID, compID int64) (bool, error) {
	var existing int64
	err := w.tx.QueryRowContext(ctx, `SELECT id FROM matches WHERE external_id = ?`, f.ExternalID).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	created := errors.Is(err, sql.ErrNoRows)

	_, err = w.tx.ExecContext(ctx, `
	INSERT INTO matches (external_id, slug, starts_at, status, home_team_id, away_team_id, competition_id, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(external_id) DO UPDATE SET
		slug = excluded.slug,
		starts_at = excluded.starts_at,
		status = excluded.status,
		home_team_id = excluded.home_team_id,
		away_team_id = excluded.away_team_id,
		competition_id = excluded.competition_id,
		updated_at = excluded.updated_at`,
		f.ExternalID, f.Slug, f.StartsAt.UTC().Format(time.RFC3339), string(fixtures.ToStoredStatus(f.Status)),
		homeID, awayID, compID, w.now,
	)
	if err != nil {
		return false, fmt.Errorf("upsert match %d: %w", f.ExternalID, err)
	}
	return created, nil
}

// FixtureBySlug loads a stored fixture. The status is the stored one.
func (s *Store) FixtureBySlug(ctx context.Context, slug string) (fixtures.Fixture, bool, error) {
	const q = `
	SELECT m.external_id, m.slug, m.starts_at, m.status,
		h.external_id, h.name_en, h.name_ar, COALESCE(h.logo_url, ''),
		a.external_id, a.name_en, a.name_ar, COALESCE(a.logo_url, ''),
		c.external_id, c.name_en, c.name_ar, COALESCE(c.logo_url, '')
	FROM matches m
	JOIN teams h ON h.id = m.home_team_id
	JOIN teams a ON a.id = m.away_team_id
	JOIN competitions c ON c.id = m.competition_id
	WHERE m.slug = ?`

	var (
		f                fixtures.Fixture
		startsAt, status string
		hID, aID, cID    sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, q, slug).Scan(
		&f.ExternalID, &f.Slug, &startsAt, &status,
		&hID, &f.Home.En, &f.Home.Ar, &f.Home.LogoURL,
		&aID, &f.Away.En, &f.Away.Ar, &f.Away.LogoURL,
		&cID, &f.Competition.En, &f.Competition.Ar, &f.Competition.LogoURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fixtures.Fixture{}, false, nil
	}
	if err != nil {
		return fixtures.Fixture{}, false, err
	}

	f.StartsAt, err = time.Parse(time.RFC3339, startsAt)
	if err != nil {
		return fixtures.Fixture{}, false, fmt.Errorf("match %s: bad starts_at: %w", slug, err)
	}
	f.Status = status
	f.Source = fixtures.SourceStore
	f.Home.ID = ptr(hID)
	f.Away.ID = ptr(aID)
	f.Competition.ID = ptr(cID)
	return f, true, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
