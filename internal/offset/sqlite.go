package offset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver registration
)

// migrations[i] brings the schema from version i to i+1.
var migrations = []string{
	`CREATE TABLE offsets (
		bot_id     INTEGER PRIMARY KEY,
		next_id    INTEGER NOT NULL,
		updated_at TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	)`,
}

// pragmas apply to the single pooled connection.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
}

// SQLiteStore keeps offsets in a SQLite database, one row per bot.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and migrates it.
// The pool holds one connection, so the WAL and busy_timeout pragmas stay
// in effect for every statement.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("offset: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("offset: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("offset: %s: %w", p, err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// LoadOffset implements telegram.OffsetStore. Unknown bots start at 0.
func (s *SQLiteStore) LoadOffset(ctx context.Context, botID int64) (int64, error) {
	var next int64
	err := s.db.QueryRowContext(ctx, "SELECT next_id FROM offsets WHERE bot_id = ?", botID).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("offset: load bot %d: %w", botID, err)
	}
	return next, nil
}

// SaveOffset implements telegram.OffsetStore.
func (s *SQLiteStore) SaveOffset(ctx context.Context, botID, offset int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO offsets (bot_id, next_id) VALUES (?, ?)
		ON CONFLICT(bot_id) DO UPDATE SET
			next_id = excluded.next_id,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')`, botID, offset)
	if err != nil {
		return fmt.Errorf("offset: save bot %d: %w", botID, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// migrate applies the migrations the database has not seen yet, each in
// its own transaction together with the version bump.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("offset: create schema_version: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("offset: read schema version: %w", err)
	}

	for v := current; v < len(migrations); v++ {
		if err := applyMigration(ctx, db, v+1, migrations[v]); err != nil {
			return fmt.Errorf("offset: migrate to version %d: %w", v+1, err)
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, version int, stmt string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}
