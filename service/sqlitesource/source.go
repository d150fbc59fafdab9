// Package sqlitesource backs the service with a SQLite database of coverage
// records and spectrogram tiles. Times are stored as float64 seconds since
// epoch; range queries use the half-open overlap condition the cache
// expects.
package sqlitesource

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/openseis/blockview/channel"
	"github.com/openseis/blockview/service"
)

const schema = `
CREATE TABLE IF NOT EXISTS coverage (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	codes TEXT NOT NULL,
	tmin REAL NOT NULL,
	tmax REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_coverage_kind_time ON coverage(kind, tmin, tmax);

CREATE TABLE IF NOT EXISTS spectrogram (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	codes TEXT NOT NULL,
	tmin REAL NOT NULL,
	tmax REAL NOT NULL,
	fmin REAL NOT NULL,
	fmax REAL NOT NULL,
	image BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_spectrogram_time ON spectrogram(tmin, tmax);
`

type Source struct {
	db *sql.DB
}

var _ service.Source = (*Source)(nil)

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Source, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitesource: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitesource: enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitesource: init schema: %w", err)
	}
	return &Source{db: db}, nil
}

func (s *Source) Close() error { return s.db.Close() }

// DB exposes the handle for loaders and tests.
func (s *Source) DB() *sql.DB { return s.db }

func (s *Source) Codes(ctx context.Context, kind channel.Kind) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT codes FROM coverage WHERE kind = ? ORDER BY codes`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (s *Source) TimeSpan(ctx context.Context, kind channel.Kind) (*service.Span, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT MIN(tmin), MAX(tmax) FROM coverage WHERE kind = ?`, string(kind))
	var tmin, tmax sql.NullFloat64
	if err := row.Scan(&tmin, &tmax); err != nil {
		return nil, err
	}
	if !tmin.Valid || !tmax.Valid {
		return nil, nil
	}
	return &service.Span{TMin: tmin.Float64, TMax: tmax.Float64}, nil
}

func (s *Source) Coverage(ctx context.Context, kind channel.Kind, tmin, tmax float64) ([]service.CoverageEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, codes, tmin, tmax FROM coverage
		 WHERE kind = ? AND tmin < ? AND tmax > ?
		 ORDER BY codes, tmin`, string(kind), tmax, tmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []service.CoverageEntry
	for rows.Next() {
		var e service.CoverageEntry
		var k string
		if err := rows.Scan(&k, &e.Codes, &e.TMin, &e.TMax); err != nil {
			return nil, err
		}
		e.Kind = channel.Kind(k)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Source) Spectrograms(ctx context.Context, tmin, tmax, fmin, fmax float64) ([]service.SpectrogramEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT codes, tmin, tmax, image FROM spectrogram
		 WHERE tmin < ? AND tmax > ? AND fmin < ? AND fmax > ?
		 ORDER BY codes, tmin`, tmax, tmin, fmax, fmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []service.SpectrogramEntry
	for rows.Next() {
		var e service.SpectrogramEntry
		if err := rows.Scan(&e.Codes, &e.TMin, &e.TMax, &e.Image); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddCoverage inserts one availability record (loader/test helper).
func (s *Source) AddCoverage(ctx context.Context, kind channel.Kind, codes string, tmin, tmax float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO coverage (kind, codes, tmin, tmax) VALUES (?, ?, ?, ?)`,
		string(kind), codes, tmin, tmax)
	return err
}

// AddSpectrogram inserts one tile (loader/test helper).
func (s *Source) AddSpectrogram(ctx context.Context, codes string, tmin, tmax, fmin, fmax float64, image []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO spectrogram (codes, tmin, tmax, fmin, fmax, image) VALUES (?, ?, ?, ?, ?, ?)`,
		codes, tmin, tmax, fmin, fmax, image)
	return err
}
