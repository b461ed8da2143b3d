package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// defaultKeepPerDraft bounds snapshot retention when the caller passes a
// non-positive keep value.
const defaultKeepPerDraft = 20

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	keep   int
}

// NewSQLiteStore creates a new SQLite snapshot store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string, keepPerDraft int) (*SQLiteStore, error) {
	if keepPerDraft <= 0 {
		keepPerDraft = defaultKeepPerDraft
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		keep:   keepPerDraft,
	}, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS draft_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		curation_id TEXT NOT NULL,
		curator TEXT DEFAULT '',
		evidence_data TEXT NOT NULL,
		note TEXT DEFAULT '',
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_curation_id ON draft_snapshots(curation_id, saved_at DESC);
	`

	_, err := db.Exec(schema)
	return err
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanSnapshot scans a row into a Snapshot struct.
func scanSnapshot(s scanner) (*Snapshot, error) {
	snap := &Snapshot{}
	var evidence string

	err := s.Scan(&snap.ID, &snap.CurationID, &snap.Curator, &evidence, &snap.Note, &snap.SavedAt)
	if err != nil {
		return nil, err
	}

	snap.EvidenceData = json.RawMessage(evidence)
	return snap, nil
}

// Save appends a snapshot and prunes old snapshots beyond the retention limit.
func (s *SQLiteStore) Save(ctx context.Context, snapshot *Snapshot) error {
	if snapshot.CurationID == "" {
		return fmt.Errorf("curation ID is required")
	}
	if len(snapshot.EvidenceData) == 0 {
		snapshot.EvidenceData = json.RawMessage("{}")
	}
	if snapshot.SavedAt.IsZero() {
		snapshot.SavedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO draft_snapshots (curation_id, curator, evidence_data, note, saved_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		snapshot.CurationID,
		snapshot.Curator,
		string(snapshot.EvidenceData),
		snapshot.Note,
		snapshot.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}
	snapshot.ID = id

	return s.prune(ctx, snapshot.CurationID)
}

// prune removes snapshots beyond the retention limit for a curation.
func (s *SQLiteStore) prune(ctx context.Context, curationID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM draft_snapshots
		WHERE curation_id = ? AND id NOT IN (
			SELECT id FROM draft_snapshots
			WHERE curation_id = ?
			ORDER BY saved_at DESC, id DESC
			LIMIT ?
		)
	`, curationID, curationID, s.keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}

// Latest returns the most recent snapshot for a curation.
func (s *SQLiteStore) Latest(ctx context.Context, curationID string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, curation_id, curator, evidence_data, note, saved_at
		FROM draft_snapshots
		WHERE curation_id = ?
		ORDER BY saved_at DESC, id DESC
		LIMIT 1
	`, curationID)

	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return snap, nil
}

// List returns snapshots for a curation, newest first.
func (s *SQLiteStore) List(ctx context.Context, curationID string, limit, offset int) ([]*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, curation_id, curator, evidence_data, note, saved_at
		FROM draft_snapshots
		WHERE curation_id = ?
		ORDER BY saved_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, curationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, snap)
	}
	return result, rows.Err()
}

// Count returns the number of snapshots held for a curation.
func (s *SQLiteStore) Count(ctx context.Context, curationID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM draft_snapshots WHERE curation_id = ?", curationID,
	).Scan(&count)
	return count, err
}

// Purge removes all snapshots for a curation.
func (s *SQLiteStore) Purge(ctx context.Context, curationID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM draft_snapshots WHERE curation_id = ?", curationID)
	return err
}

// maxExportLimit is the maximum number of entries to export at once.
const maxExportLimit = 1000000

// ExportJSON exports all snapshots to a JSON writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, curation_id, curator, evidence_data, note, saved_at
		FROM draft_snapshots
		ORDER BY saved_at DESC, id DESC
		LIMIT ?
	`, maxExportLimit)
	if err != nil {
		return fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var all []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		all = append(all, snap)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	export := &SnapshotExport{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Count:      len(all),
		Snapshots:  all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// ImportJSON imports snapshots from a JSON reader. Snapshots whose curation
// already holds a newer or equal snapshot are skipped.
func (s *SQLiteStore) ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error) {
	var export SnapshotExport
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for _, snap := range export.Snapshots {
		latest, err := s.Latest(ctx, snap.CurationID)
		if err != nil {
			return imported, skipped, fmt.Errorf("failed to check existing: %w", err)
		}

		if latest != nil && !latest.SavedAt.Before(snap.SavedAt) {
			skipped++
			continue
		}

		snap.ID = 0
		if err := s.Save(ctx, snap); err != nil {
			return imported, skipped, fmt.Errorf("failed to save: %w", err)
		}
		imported++
	}

	return imported, skipped, nil
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
