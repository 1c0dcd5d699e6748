package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/i474232898/forecast-cards/internal/forecast"
)

const schema = `
CREATE TABLE IF NOT EXISTS preferred_locations (
	position INTEGER NOT NULL,
	loc_key  TEXT PRIMARY KEY,
	label    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS forecast_cache (
	loc_key    TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	data       TEXT NOT NULL
);`

// SQLiteStore implements LocationStore and ForecastCache on a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Serializes writers; SQLite allows one at a time anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Printf("INFO: could not set WAL mode: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]forecast.Location, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT loc_key, label FROM preferred_locations ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]forecast.Location, 0)
	for rows.Next() {
		var l forecast.Location
		if err := rows.Scan(&l.Key, &l.Label); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Save replaces the stored list with locs, deduplicated by key.
func (s *SQLiteStore) Save(ctx context.Context, locs []forecast.Location) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM preferred_locations`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO preferred_locations(position, loc_key, label) VALUES(?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, l := range Dedupe(locs) {
		if _, err = stmt.ExecContext(ctx, i, l.Key, l.Label); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Put(ctx context.Context, rec forecast.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO forecast_cache(loc_key, created_at, data) VALUES(?,?,?)`,
		rec.Location.Key, rec.CreatedAt.UTC().Format(time.RFC3339Nano), string(data))
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (forecast.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM forecast_cache WHERE loc_key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return forecast.Record{}, ErrNotFound
	}
	if err != nil {
		return forecast.Record{}, err
	}

	var rec forecast.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return forecast.Record{}, fmt.Errorf("decode cached forecast: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
