// SPDX-License-Identifier: MIT

// Package store persists extracted media metadata in SQLite so repeated
// scans build up a queryable index.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/feedkit/mediascan/internal/mediarss"
	"github.com/feedkit/mediascan/internal/scan"
)

// Store manages media index persistence backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open initializes or connects to the index database and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("ensure db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS documents (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            path TEXT NOT NULL,
            scanned_at TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS media (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
            item_guid TEXT,
            item_title TEXT,
            url TEXT,
            title TEXT,
            payload TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_media_url ON media(url)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordDocument inserts a scanned document and returns its row id.
func (s *Store) RecordDocument(ctx context.Context, path string) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO documents (path, scanned_at) VALUES (?, ?)`,
		path,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("document id: %w", err)
	}
	return id, nil
}

// RecordMedia inserts one extracted media object, keeping the full record as
// JSON alongside a few queryable columns.
func (s *Store) RecordMedia(ctx context.Context, docID int64, item scan.Item, obj mediarss.MediaObject) (int64, error) {
	payload, err := json.Marshal(obj)
	if err != nil {
		return 0, fmt.Errorf("encode media payload: %w", err)
	}

	var mediaURL, mediaTitle string
	if obj.Content != nil {
		mediaURL = obj.Content.URL
	}
	if obj.Title != nil {
		mediaTitle = obj.Title.Value
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO media (document_id, item_guid, item_title, url, title, payload)
         VALUES (?, ?, ?, ?, ?, ?)`,
		docID,
		nullableString(item.GUID),
		nullableString(item.Title),
		nullableString(mediaURL),
		nullableString(mediaTitle),
		string(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("insert media: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("media id: %w", err)
	}
	return id, nil
}

// CountMedia returns the number of indexed media records.
func (s *Store) CountMedia(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count media: %w", err)
	}
	return n, nil
}

// MediaByURL loads the stored payloads whose content url matches exactly.
func (s *Store) MediaByURL(ctx context.Context, url string) ([]mediarss.MediaObject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM media WHERE url = ?`, url)
	if err != nil {
		return nil, fmt.Errorf("query media: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []mediarss.MediaObject
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan media row: %w", err)
		}
		var obj mediarss.MediaObject
		if err := json.Unmarshal([]byte(payload), &obj); err != nil {
			return nil, fmt.Errorf("decode media payload: %w", err)
		}
		out = append(out, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media rows: %w", err)
	}
	return out, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
