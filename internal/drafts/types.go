// Package drafts provides snapshot storage for in-progress curation evidence
// documents. The editor auto-saves on an interval; snapshots let a curator
// recover a form after a crash or roll back to an earlier state of the
// document before submission.
package drafts

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// Snapshot is one saved state of a curation's evidence document. EvidenceData
// is kept as raw JSON: a snapshot must capture exactly what the editor held,
// including fields the current parser would coerce or drop.
type Snapshot struct {
	ID           int64           `json:"id,omitempty"`
	CurationID   string          `json:"curation_id"`
	Curator      string          `json:"curator,omitempty"`
	EvidenceData json.RawMessage `json:"evidence_data"`
	Note         string          `json:"note,omitempty"`
	SavedAt      time.Time       `json:"saved_at"`
}

// Store defines the interface for draft snapshot storage.
type Store interface {
	// Save appends a snapshot for a curation. Older snapshots beyond the
	// store's retention limit are pruned.
	Save(ctx context.Context, snapshot *Snapshot) error

	// Latest returns the most recent snapshot for a curation, or nil when
	// the curation has no snapshots.
	Latest(ctx context.Context, curationID string) (*Snapshot, error)

	// List returns snapshots for a curation, newest first, with pagination.
	List(ctx context.Context, curationID string, limit, offset int) ([]*Snapshot, error)

	// Count returns the number of snapshots held for a curation.
	Count(ctx context.Context, curationID string) (int64, error)

	// Purge removes all snapshots for a curation. Called when the curation
	// is submitted or deleted.
	Purge(ctx context.Context, curationID string) error

	// ExportJSON exports all snapshots to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON imports snapshots from a JSON reader.
	// Returns the number of imported and skipped entries.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// SnapshotExport represents the JSON export format.
type SnapshotExport struct {
	Version    string      `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Count      int         `json:"count"`
	Snapshots  []*Snapshot `json:"snapshots"`
}
