package usage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	// DataFileName is the default file name of the stats database.
	DataFileName = "stats.db"
	dirMode      = 0o700
)

//go:embed sql/*
var sqlFS embed.FS

// SQLiteStore is a Store backed by a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at path, creating the file, its directory
// and the schema when missing. A nil log uses slog.Default().
func OpenSQLite(path string, log *slog.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = slog.Default()
	}
	if path == "" {
		return nil, errors.New("usage.OpenSQLite: path not specified")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, fmt.Errorf("usage.OpenSQLite: create dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("usage.OpenSQLite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	ddl, err := sqlFS.ReadFile("sql/ddl.sql")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("usage.OpenSQLite: read schema: %w", err)
	}
	if _, err := db.Exec(string(ddl)); err != nil {
		db.Close()
		return nil, fmt.Errorf("usage.OpenSQLite: create schema in %s: %w", path, err)
	}
	log.Debug("stats database ready", "path", path)
	return &SQLiteStore{db: db}, nil
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func (s *SQLiteStore) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("usage.Increment: begin: %w", err)
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO counter (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = value + excluded.value, updated_at = excluded.updated_at`
	if _, err := tx.ExecContext(ctx, upsert, key, delta, now()); err != nil {
		return 0, fmt.Errorf("usage.Increment: %s: %w", key, err)
	}
	var v int64
	if err := tx.QueryRowContext(ctx, `SELECT value FROM counter WHERE name = ?`, key).Scan(&v); err != nil {
		return 0, fmt.Errorf("usage.Increment: read %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("usage.Increment: commit: %w", err)
	}
	return v, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (int64, error) {
	var v int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM counter WHERE name = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("usage.Get: %s: %w", key, err)
	}
	return v, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value int64) error {
	const upsert = `INSERT INTO counter (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, upsert, key, value, now()); err != nil {
		return fmt.Errorf("usage.Set: %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM counter`); err != nil {
		return fmt.Errorf("usage.Reset: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Preference(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preference WHERE name = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("usage.Preference: %s: %w", key, err)
	}
	return v, nil
}

func (s *SQLiteStore) SetPreference(ctx context.Context, key, value string) error {
	const upsert = `INSERT INTO preference (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, upsert, key, value, now()); err != nil {
		return fmt.Errorf("usage.SetPreference: %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
