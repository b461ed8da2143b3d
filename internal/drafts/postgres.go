package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements the Store interface using PostgreSQL. Deployments
// that already run the curation database share it for snapshots instead of
// carrying a local SQLite file.
type PostgresStore struct {
	db   *sql.DB
	keep int
}

// NewPostgresStore creates a new PostgreSQL snapshot store. The snapshot table
// is created on first use; snapshots are operational data, not part of the
// migrated curation schema.
func NewPostgresStore(db *sql.DB, keepPerDraft int) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if keepPerDraft <= 0 {
		keepPerDraft = defaultKeepPerDraft
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS draft_snapshots (
			id BIGSERIAL PRIMARY KEY,
			curation_id TEXT NOT NULL,
			curator TEXT DEFAULT '',
			evidence_data JSONB NOT NULL,
			note TEXT DEFAULT '',
			saved_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_curation_id
			ON draft_snapshots(curation_id, saved_at DESC)
	`); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &PostgresStore{db: db, keep: keepPerDraft}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL snapshot store from a
// connection URL.
func NewPostgresStoreFromURL(databaseURL string, keepPerDraft int) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db, keepPerDraft)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Save appends a snapshot and prunes old snapshots beyond the retention limit.
func (s *PostgresStore) Save(ctx context.Context, snapshot *Snapshot) error {
	if snapshot.CurationID == "" {
		return fmt.Errorf("curation ID is required")
	}
	if len(snapshot.EvidenceData) == 0 {
		snapshot.EvidenceData = json.RawMessage("{}")
	}
	if snapshot.SavedAt.IsZero() {
		snapshot.SavedAt = time.Now()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO draft_snapshots (curation_id, curator, evidence_data, note, saved_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		snapshot.CurationID,
		snapshot.Curator,
		string(snapshot.EvidenceData),
		snapshot.Note,
		snapshot.SavedAt,
	).Scan(&snapshot.ID)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM draft_snapshots
		WHERE curation_id = $1 AND id NOT IN (
			SELECT id FROM draft_snapshots
			WHERE curation_id = $1
			ORDER BY saved_at DESC, id DESC
			LIMIT $2
		)
	`, snapshot.CurationID, s.keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	return nil
}

// Latest returns the most recent snapshot for a curation.
func (s *PostgresStore) Latest(ctx context.Context, curationID string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, curation_id, curator, evidence_data, note, saved_at
		FROM draft_snapshots
		WHERE curation_id = $1
		ORDER BY saved_at DESC, id DESC
		LIMIT 1
	`, curationID)

	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return snap, nil
}

// List returns snapshots for a curation, newest first.
func (s *PostgresStore) List(ctx context.Context, curationID string, limit, offset int) ([]*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, curation_id, curator, evidence_data, note, saved_at
		FROM draft_snapshots
		WHERE curation_id = $1
		ORDER BY saved_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, curationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
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
func (s *PostgresStore) Count(ctx context.Context, curationID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM draft_snapshots WHERE curation_id = $1", curationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}

// Purge removes all snapshots for a curation.
func (s *PostgresStore) Purge(ctx context.Context, curationID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM draft_snapshots WHERE curation_id = $1", curationID)
	if err != nil {
		return fmt.Errorf("failed to purge snapshots: %w", err)
	}
	return nil
}

// ExportJSON exports all snapshots to a JSON writer.
func (s *PostgresStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, curation_id, curator, evidence_data, note, saved_at
		FROM draft_snapshots
		ORDER BY saved_at DESC, id DESC
		LIMIT $1
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
func (s *PostgresStore) ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error) {
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
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
