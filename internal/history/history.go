// Package history persists one record per dispatched request so past calls
// can be reviewed from the console.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Outcome values stored per request.
const (
	OutcomeOK           = "ok"
	OutcomeTransport    = "transport"
	OutcomeHTTP         = "http"
	OutcomeInvalidInput = "invalid"
)

// Entry is one dispatched request.
type Entry struct {
	ID         string
	OccurredAt time.Time
	Method     string
	Endpoint   string
	Params     string // JSON text of the query bag or body, "" when none
	Outcome    string
	StatusCode int // 0 unless Outcome is http
	DurationMS int64
}

// Store is the sqlite-backed request log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	err = m.Up()
	if err == migrate.ErrNoChange {
		return nil
	}
	return err
}

// Record inserts one entry, filling ID and OccurredAt when unset.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC().Truncate(time.Second)
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO requests(id, occurred_at, method, endpoint, params, outcome, status_code, duration_ms)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?);
	`, e.ID, e.OccurredAt, e.Method, e.Endpoint, e.Params, e.Outcome, e.StatusCode, e.DurationMS)
	return err
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, occurred_at, method, endpoint, params, outcome, status_code, duration_ms
	FROM requests ORDER BY occurred_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.OccurredAt, &e.Method, &e.Endpoint, &e.Params, &e.Outcome, &e.StatusCode, &e.DurationMS); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune deletes entries older than keep, returning how many were removed.
func (s *Store) Prune(ctx context.Context, keep time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-keep)
	res, err := s.db.ExecContext(ctx, `DELETE FROM requests WHERE occurred_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
