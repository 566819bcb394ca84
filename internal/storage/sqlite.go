package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Tiliavir/tlog/internal/model"
)

const driverName = "sqlite"

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	Apply   func(tx *sql.Tx) error
}

var migrations = []migration{
	{Version: 1, Name: "events", Apply: migrateV001},
}

func migrateV001(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE events (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			at          TEXT NOT NULL,
			kind        TEXT NOT NULL CHECK (kind IN ('start', 'away', 'back', 'out')),
			issue       TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

// SQLiteLog stores events in a SQLite table ordered by insertion sequence.
type SQLiteLog struct {
	db *sql.DB
}

// OpenSQLiteLog opens (creating if needed) <base>/timedb.sqlite.
func OpenSQLiteLog(ctx context.Context, base string) (*SQLiteLog, error) {
	return openSQLiteLog(ctx, filepath.Join(base, EventsDBFile))
}

func openSQLiteLog(ctx context.Context, dsn string) (*SQLiteLog, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// The log has a single writer.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteLog{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.Version,
		).Scan(&count); err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if err := m.Apply(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// Events implements EventLog.
func (l *SQLiteLog) Events(ctx context.Context) ([]model.Event, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT at, kind, issue, description FROM events ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var (
			e        model.Event
			ts, kind string
		)
		if err := rows.Scan(&ts, &kind, &e.Issue, &e.Desc); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Type = model.EventType(kind)
		if e.Time, err = time.Parse(time.RFC3339, ts); err != nil {
			return nil, fmt.Errorf("parse event time %q: %w", ts, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Append implements EventLog.
func (l *SQLiteLog) Append(ctx context.Context, e model.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("refusing to store event: %w", err)
	}
	e = normalize(e)
	if _, err := l.db.ExecContext(ctx,
		"INSERT INTO events (at, kind, issue, description) VALUES (?, ?, ?, ?)",
		e.Time.Format(time.RFC3339), string(e.Type), e.Issue, e.Desc,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Close implements EventLog.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
