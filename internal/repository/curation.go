// Package repository implements PostgreSQL persistence for curation records.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/gene-validity-server/internal/domain"
)

// CurationRepository handles curation record persistence. Evidence documents
// and score snapshots are stored as JSONB columns; the record's scalar fields
// are proper columns so listings and workflow queries never touch the JSON.
type CurationRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewCurationRepository creates a new curation repository
func NewCurationRepository(db *pgxpool.Pool, logger *logrus.Logger) *CurationRepository {
	return &CurationRepository{
		db:  db,
		log: logger,
	}
}

// Create inserts a new curation record. New records start in draft with lock
// version zero regardless of what the caller set.
func (r *CurationRepository) Create(ctx context.Context, curation *domain.CurationRecord) error {
	if err := curation.Validate(); err != nil {
		return err
	}

	if curation.ID == uuid.Nil {
		curation.ID = uuid.New()
	}
	curation.Status = domain.CurationDraft
	curation.LockVersion = 0

	evidenceJSON, err := json.Marshal(curation.EvidenceData)
	if err != nil {
		return fmt.Errorf("marshaling evidence data: %w", err)
	}
	scoreJSON, err := marshalScore(curation.Score)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO curations (
			id, gene_symbol, disease_id, disease_name, mode_of_inheritance,
			curator, status, evidence_data, score, lock_version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)`

	_, err = r.db.Exec(ctx, query,
		curation.ID,
		curation.GeneSymbol,
		curation.DiseaseID,
		curation.DiseaseName,
		curation.ModeOfInheritance,
		curation.Curator,
		curation.Status,
		evidenceJSON,
		scoreJSON,
		curation.LockVersion,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"curation_id": curation.ID,
			"gene_symbol": curation.GeneSymbol,
			"error":       err,
		}).Error("Failed to create curation")
		return fmt.Errorf("creating curation: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"curation_id": curation.ID,
		"gene_symbol": curation.GeneSymbol,
		"disease_id":  curation.DiseaseID,
	}).Info("Curation created successfully")

	return nil
}

// GetByID retrieves a curation record by its ID
func (r *CurationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CurationRecord, error) {
	query := `
		SELECT id, gene_symbol, disease_id, disease_name, mode_of_inheritance,
			   curator, status, evidence_data, score, lock_version, created_at, updated_at
		FROM curations
		WHERE id = $1`

	curation, err := r.scanCuration(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("curation not found: %w", domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"curation_id": id,
			"error":       err,
		}).Error("Failed to get curation by ID")
		return nil, fmt.Errorf("getting curation by ID: %w", err)
	}

	return curation, nil
}

// GetByGeneDisease retrieves the curation for a gene-disease pair. A pair has
// at most one record per mode of inheritance.
func (r *CurationRepository) GetByGeneDisease(ctx context.Context, geneSymbol, diseaseID, moi string) (*domain.CurationRecord, error) {
	query := `
		SELECT id, gene_symbol, disease_id, disease_name, mode_of_inheritance,
			   curator, status, evidence_data, score, lock_version, created_at, updated_at
		FROM curations
		WHERE gene_symbol = $1 AND disease_id = $2 AND mode_of_inheritance = $3`

	curation, err := r.scanCuration(r.db.QueryRow(ctx, query, geneSymbol, diseaseID, moi))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("curation not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting curation by gene-disease pair: %w", err)
	}

	return curation, nil
}

// ListByGene retrieves curations for a gene symbol with pagination
func (r *CurationRepository) ListByGene(ctx context.Context, geneSymbol string, limit, offset int) ([]*domain.CurationRecord, error) {
	query := `
		SELECT id, gene_symbol, disease_id, disease_name, mode_of_inheritance,
			   curator, status, evidence_data, score, lock_version, created_at, updated_at
		FROM curations
		WHERE gene_symbol = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	return r.list(ctx, query, geneSymbol, limit, offset)
}

// ListByStatus retrieves curations in a workflow stage with pagination
func (r *CurationRepository) ListByStatus(ctx context.Context, status domain.CurationStatus, limit, offset int) ([]*domain.CurationRecord, error) {
	query := `
		SELECT id, gene_symbol, disease_id, disease_name, mode_of_inheritance,
			   curator, status, evidence_data, score, lock_version, created_at, updated_at
		FROM curations
		WHERE status = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`

	return r.list(ctx, query, status, limit, offset)
}

// Update writes a curation record back using optimistic locking. The caller's
// LockVersion must match the stored row; on success the stored version is
// incremented and the caller's struct updated to match. A version mismatch
// returns ErrStaleRecord.
func (r *CurationRepository) Update(ctx context.Context, curation *domain.CurationRecord) error {
	if err := curation.Validate(); err != nil {
		return err
	}

	evidenceJSON, err := json.Marshal(curation.EvidenceData)
	if err != nil {
		return fmt.Errorf("marshaling evidence data: %w", err)
	}
	scoreJSON, err := marshalScore(curation.Score)
	if err != nil {
		return err
	}

	query := `
		UPDATE curations
		SET gene_symbol = $2, disease_id = $3, disease_name = $4,
			mode_of_inheritance = $5, curator = $6, status = $7,
			evidence_data = $8, score = $9, lock_version = lock_version + 1,
			updated_at = NOW()
		WHERE id = $1 AND lock_version = $10`

	result, err := r.db.Exec(ctx, query,
		curation.ID,
		curation.GeneSymbol,
		curation.DiseaseID,
		curation.DiseaseName,
		curation.ModeOfInheritance,
		curation.Curator,
		curation.Status,
		evidenceJSON,
		scoreJSON,
		curation.LockVersion,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"curation_id": curation.ID,
			"error":       err,
		}).Error("Failed to update curation")
		return fmt.Errorf("updating curation: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish a missing row from a version conflict
		var exists bool
		if probeErr := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM curations WHERE id = $1)`,
			curation.ID).Scan(&exists); probeErr == nil && !exists {
			return fmt.Errorf("curation not found: %w", domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"curation_id":  curation.ID,
			"lock_version": curation.LockVersion,
		}).Warn("Curation update rejected on stale lock version")
		return fmt.Errorf("updating curation %s: %w", curation.ID, domain.ErrStaleRecord)
	}

	curation.LockVersion++

	r.log.WithFields(logrus.Fields{
		"curation_id":  curation.ID,
		"lock_version": curation.LockVersion,
	}).Info("Curation updated successfully")

	return nil
}

// TransitionStatus moves a curation to a new workflow stage, enforcing both
// the workflow rules and optimistic locking.
func (r *CurationRepository) TransitionStatus(ctx context.Context, id uuid.UUID, target domain.CurationStatus, lockVersion int) (*domain.CurationRecord, error) {
	curation, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if curation.LockVersion != lockVersion {
		return nil, fmt.Errorf("transitioning curation %s: %w", id, domain.ErrStaleRecord)
	}
	if err := curation.Status.ValidateTransition(target); err != nil {
		return nil, err
	}

	query := `
		UPDATE curations
		SET status = $2, lock_version = lock_version + 1, updated_at = NOW()
		WHERE id = $1 AND lock_version = $3`

	result, err := r.db.Exec(ctx, query, id, target, lockVersion)
	if err != nil {
		return nil, fmt.Errorf("transitioning curation status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("transitioning curation %s: %w", id, domain.ErrStaleRecord)
	}

	curation.Status = target
	curation.LockVersion++

	r.log.WithFields(logrus.Fields{
		"curation_id": id,
		"status":      target,
	}).Info("Curation status transitioned")

	return curation, nil
}

// Delete removes a curation record
func (r *CurationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM curations WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"curation_id": id,
			"error":       err,
		}).Error("Failed to delete curation")
		return fmt.Errorf("deleting curation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("curation not found: %w", domain.ErrNotFound)
	}

	r.log.WithFields(logrus.Fields{
		"curation_id": id,
	}).Info("Curation deleted successfully")

	return nil
}

func (r *CurationRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.CurationRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing curations: %w", err)
	}
	defer rows.Close()

	var curations []*domain.CurationRecord
	for rows.Next() {
		curation, err := r.scanCuration(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning curation row: %w", err)
		}
		curations = append(curations, curation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating curation rows: %w", err)
	}

	return curations, nil
}

func (r *CurationRepository) scanCuration(row pgx.Row) (*domain.CurationRecord, error) {
	var curation domain.CurationRecord
	var evidenceJSON []byte
	var scoreJSON []byte
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&curation.ID,
		&curation.GeneSymbol,
		&curation.DiseaseID,
		&curation.DiseaseName,
		&curation.ModeOfInheritance,
		&curation.Curator,
		&curation.Status,
		&evidenceJSON,
		&scoreJSON,
		&curation.LockVersion,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(evidenceJSON) > 0 {
		if err := json.Unmarshal(evidenceJSON, &curation.EvidenceData); err != nil {
			return nil, fmt.Errorf("unmarshaling evidence data: %w", err)
		}
	}
	if len(scoreJSON) > 0 {
		var score domain.ScoreResult
		if err := json.Unmarshal(scoreJSON, &score); err != nil {
			return nil, fmt.Errorf("unmarshaling score: %w", err)
		}
		curation.Score = &score
	}

	curation.CreatedAt = createdAt
	curation.UpdatedAt = updatedAt

	return &curation, nil
}

func marshalScore(score *domain.ScoreResult) ([]byte, error) {
	if score == nil {
		return nil, nil
	}
	data, err := json.Marshal(score)
	if err != nil {
		return nil, fmt.Errorf("marshaling score: %w", err)
	}
	return data, nil
}
