package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLStore persists extracted season tables so a restart does not refetch them.
// The SQL is kept to the subset SQLite and Postgres share ($n placeholders,
// ON CONFLICT upserts).
type SQLStore struct {
	DB *sql.DB

	now func() time.Time
}

// OpenSQLStore opens and pings the database, then runs migrations.
func OpenSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if driver == DriverSQLite {
		// a single connection keeps ":memory:" databases shared and avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	s := &SQLStore{DB: db, now: time.Now}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) Close() error {
	return s.DB.Close()
}

// Migrate creates the necessary tables if they do not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS seasons (
			season     INTEGER PRIMARY KEY,
			source     TEXT    NOT NULL,
			fetched_at TEXT    NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS season_records (
			season   INTEGER NOT NULL REFERENCES seasons(season) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			team     TEXT    NOT NULL,
			wins     INTEGER NOT NULL,
			draws    INTEGER NOT NULL,
			points   INTEGER NOT NULL,
			PRIMARY KEY (season, position)
		)`,
	}
	for _, q := range queries {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// SaveSeason replaces the stored table for season.
func (s *SQLStore) SaveSeason(ctx context.Context, season int, source string, records []model.SeasonRecord) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin SaveSeason tx: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO seasons (season, source, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (season) DO UPDATE SET source = excluded.source, fetched_at = excluded.fetched_at`
	if _, err := tx.ExecContext(ctx, upsert, season, source, s.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("saving season %d: %w", season, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM season_records WHERE season = $1`, season); err != nil {
		return fmt.Errorf("clearing season %d records: %w", season, err)
	}

	const insert = `
		INSERT INTO season_records (season, position, team, wins, draws, points)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i, r := range records {
		if _, err := tx.ExecContext(ctx, insert, season, i, r.Team, r.Wins, r.Draws, r.Points); err != nil {
			return fmt.Errorf("inserting record %d (%s) for season %d: %w", i, r.Team, season, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit SaveSeason tx: %w", err)
	}
	return nil
}

// StoredSeason is one saved season table.
type StoredSeason struct {
	Records   []model.SeasonRecord
	Source    string
	FetchedAt time.Time
}

// LoadSeason returns the stored table in source order. ok is false when the
// season was never saved; a saved season may legitimately have no records.
func (s *SQLStore) LoadSeason(ctx context.Context, season int) (StoredSeason, bool, error) {
	var (
		st        StoredSeason
		fetchedAt string
	)
	err := s.DB.QueryRowContext(ctx, `SELECT source, fetched_at FROM seasons WHERE season = $1`, season).
		Scan(&st.Source, &fetchedAt)
	if err == sql.ErrNoRows {
		return StoredSeason{}, false, nil
	}
	if err != nil {
		return StoredSeason{}, false, fmt.Errorf("querying season %d: %w", season, err)
	}
	if st.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt); err != nil {
		return StoredSeason{}, false, fmt.Errorf("parsing season %d fetched_at %q: %w", season, fetchedAt, err)
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT team, wins, draws, points
		FROM season_records
		WHERE season = $1
		ORDER BY position`, season)
	if err != nil {
		return StoredSeason{}, false, fmt.Errorf("querying season %d records: %w", season, err)
	}
	defer rows.Close()

	for rows.Next() {
		r := model.SeasonRecord{Season: season}
		if err := rows.Scan(&r.Team, &r.Wins, &r.Draws, &r.Points); err != nil {
			return StoredSeason{}, false, fmt.Errorf("scanning season %d record: %w", season, err)
		}
		st.Records = append(st.Records, r)
	}
	if err := rows.Err(); err != nil {
		return StoredSeason{}, false, fmt.Errorf("iterating season %d records: %w", season, err)
	}
	return st, true, nil
}

// DeleteSeason removes one stored season.
func (s *SQLStore) DeleteSeason(ctx context.Context, season int) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM season_records WHERE season = $1`, season); err != nil {
		return fmt.Errorf("deleting season %d records: %w", season, err)
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM seasons WHERE season = $1`, season); err != nil {
		return fmt.Errorf("deleting season %d: %w", season, err)
	}
	return nil
}

// DeleteAll removes every stored season.
func (s *SQLStore) DeleteAll(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM season_records`); err != nil {
		return fmt.Errorf("deleting all season records: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM seasons`); err != nil {
		return fmt.Errorf("deleting all seasons: %w", err)
	}
	return nil
}
