package domain

import (
	"time"

	"github.com/google/uuid"
)

// CurationRecord is one gene-disease validity curation: the asserted
// relationship, its evidence document, the latest score snapshot, and the
// workflow state. LockVersion implements optimistic locking: every successful
// update increments it, and a writer holding a stale version is rejected.
type CurationRecord struct {
	ID                uuid.UUID        `json:"id"`
	GeneSymbol        string           `json:"gene_symbol" validate:"required"`
	DiseaseID         string           `json:"disease_id" validate:"required"`
	DiseaseName       string           `json:"disease_name,omitempty"`
	ModeOfInheritance string           `json:"mode_of_inheritance,omitempty"`
	Curator           string           `json:"curator,omitempty"`
	Status            CurationStatus   `json:"status"`
	EvidenceData      EvidenceDocument `json:"evidence_data"`
	Score             *ScoreResult     `json:"score,omitempty"`
	LockVersion       int              `json:"lock_version"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// Validate ensures the curation record carries the fields required before it
// can be persisted. Failures are reported as *ValidationError so callers can
// surface the offending field.
func (c *CurationRecord) Validate() error {
	if c.GeneSymbol == "" {
		return NewValidationError("gene_symbol", "gene symbol is required", c.GeneSymbol)
	}
	if c.DiseaseID == "" {
		return NewValidationError("disease_id", "disease ID is required", c.DiseaseID)
	}
	if c.Status != "" && !c.Status.IsValid() {
		return NewValidationError("status", "invalid curation status", string(c.Status))
	}
	if c.LockVersion < 0 {
		return NewValidationError("lock_version", "lock version must be non-negative", c.LockVersion)
	}
	return nil
}
