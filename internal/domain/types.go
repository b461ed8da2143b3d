// Package domain contains core business entities and types for gene-disease
// validity curation following the ClinGen Gene-Disease Validity evidence-scoring
// framework.
//
// Reference: Strande et al. (2017) Evaluating the Clinical Validity of Gene-Disease
// Associations: An Evidence-Based Framework Developed by the Clinical Genome Resource.
// Am J Hum Genet. 100(6):895-906. doi: 10.1016/j.ajhg.2017.04.015
package domain

import (
	"errors"
	"fmt"
)

// Classification represents the gene-disease validity verdict derived from the
// combined genetic and experimental evidence totals. The ordering from DEFINITIVE
// down to NO_KNOWN_DISEASE_RELATIONSHIP follows the ClinGen validity categories.
//
// DISPUTED and REFUTED are reserved labels: they are assigned by an expert
// reviewer when contradictory evidence outweighs the positive evidence, never
// derived by the scoring decision table.
type Classification string

const (
	DEFINITIVE                    Classification = "DEFINITIVE"
	STRONG                        Classification = "STRONG"
	MODERATE                      Classification = "MODERATE"
	LIMITED                       Classification = "LIMITED"
	NO_KNOWN_DISEASE_RELATIONSHIP Classification = "NO_KNOWN_DISEASE_RELATIONSHIP"
	DISPUTED                      Classification = "DISPUTED"
	REFUTED                       Classification = "REFUTED"
)

// ScoreStatus is the curator-assigned tri-state on every scored evidence entry.
// Entries marked Contradicts argue against the gene-disease relationship and are
// excluded from positive subtotals.
type ScoreStatus string

const (
	StatusScore       ScoreStatus = "Score"
	StatusReview      ScoreStatus = "Review"
	StatusContradicts ScoreStatus = "Contradicts"
)

// ContradictoryEvidenceType categorizes an entry arguing against the relationship.
type ContradictoryEvidenceType string

const (
	ContradictoryPopulation  ContradictoryEvidenceType = "population"
	ContradictorySegregation ContradictoryEvidenceType = "segregation"
	ContradictoryFunctional  ContradictoryEvidenceType = "functional"
	ContradictoryPhenotype   ContradictoryEvidenceType = "phenotype"
	ContradictoryOther       ContradictoryEvidenceType = "other"
)

// ContradictionImpact is the curator's assessment of how strongly a
// contradictory entry challenges the relationship.
type ContradictionImpact string

const (
	ImpactDisputed       ContradictionImpact = "disputed"
	ImpactNote           ContradictionImpact = "note"
	ImpactRequiresReview ContradictionImpact = "requires_review"
)

// NullVariantClass enumerates predicted or proven null variant mechanisms.
type NullVariantClass string

const (
	NullNonsense             NullVariantClass = "nonsense"
	NullFrameshift           NullVariantClass = "frameshift"
	NullCanonicalSpliceSite  NullVariantClass = "canonical_splice_site"
	NullInitiationCodon      NullVariantClass = "initiation_codon"
	NullExonDeletion         NullVariantClass = "exon_deletion"
	NullGenomicRearrangement NullVariantClass = "genomic_rearrangement"
)

// OtherVariantClass enumerates non-null variant mechanisms scored in the
// other-variant-type buckets.
type OtherVariantClass string

const (
	OtherMissense      OtherVariantClass = "missense"
	OtherCrypticSplice OtherVariantClass = "cryptic_splice"
	OtherInFrameIndel  OtherVariantClass = "in_frame_indel"
	OtherRegulatory    OtherVariantClass = "regulatory"
	OtherSynonymous    OtherVariantClass = "synonymous"
)

// BiallelicZygosity describes the variant combination observed in an autosomal
// recessive proband.
type BiallelicZygosity string

const (
	ZygosityTwoNull      BiallelicZygosity = "two_null"
	ZygosityNullAndOther BiallelicZygosity = "null_and_other"
	ZygosityTwoOther     BiallelicZygosity = "two_other"
)

// ModelOrganism enumerates the non-human systems accepted for model and rescue
// evidence. The engine does not reject unknown organisms; the enum exists for
// editor dropdowns and validation at entry time.
type ModelOrganism string

const (
	OrganismMouse     ModelOrganism = "mouse"
	OrganismRat       ModelOrganism = "rat"
	OrganismZebrafish ModelOrganism = "zebrafish"
	OrganismFly       ModelOrganism = "fly"
	OrganismWorm      ModelOrganism = "worm"
	OrganismYeast     ModelOrganism = "yeast"
	OrganismOther     ModelOrganism = "other"
)

// Validation errors for curation data integrity
var (
	ErrInvalidClassification = errors.New("invalid validity classification")
	ErrInvalidScoreStatus    = errors.New("invalid score status")
	ErrInvalidImpact         = errors.New("invalid contradiction impact")
	ErrInvalidEvidenceType   = errors.New("invalid contradictory evidence type")
)

// IsValid validates that the Classification is one of the recognized validity
// categories, including the reviewer-assigned DISPUTED/REFUTED labels.
func (c Classification) IsValid() bool {
	switch c {
	case DEFINITIVE, STRONG, MODERATE, LIMITED, NO_KNOWN_DISEASE_RELATIONSHIP, DISPUTED, REFUTED:
		return true
	default:
		return false
	}
}

// IsDerivable reports whether the label can be produced by the scoring decision
// table. DISPUTED and REFUTED are reserved for reviewer assignment.
func (c Classification) IsDerivable() bool {
	switch c {
	case DEFINITIVE, STRONG, MODERATE, LIMITED, NO_KNOWN_DISEASE_RELATIONSHIP:
		return true
	default:
		return false
	}
}

// String returns the string representation of the classification.
func (c Classification) String() string {
	return string(c)
}

// Description returns a human-readable description for clinical reporting.
func (c Classification) Description() string {
	switch c {
	case DEFINITIVE:
		return "Definitive - The gene-disease relationship has been repeatedly demonstrated and upheld over time"
	case STRONG:
		return "Strong - The relationship is supported by substantial genetic and experimental evidence"
	case MODERATE:
		return "Moderate - There is moderate evidence supporting the relationship"
	case LIMITED:
		return "Limited - There is limited evidence supporting the relationship"
	case NO_KNOWN_DISEASE_RELATIONSHIP:
		return "No Known Disease Relationship - No evidence supporting a causal role"
	case DISPUTED:
		return "Disputed - Conflicting evidence disputes the asserted relationship"
	case REFUTED:
		return "Refuted - The asserted relationship has been refuted"
	default:
		return "Unknown classification"
	}
}

// DisplayColor returns the presentation color used by curation interfaces when
// rendering the classification badge.
func (c Classification) DisplayColor() string {
	switch c {
	case DEFINITIVE:
		return "green"
	case STRONG:
		return "teal"
	case MODERATE:
		return "blue"
	case LIMITED:
		return "orange"
	case DISPUTED, REFUTED:
		return "red"
	default:
		return "grey"
	}
}

// LogFields returns structured logging fields for audit trails.
func (c Classification) LogFields() map[string]any {
	return map[string]any{
		"classification": string(c),
		"description":    c.Description(),
		"is_valid":       c.IsValid(),
		"is_derivable":   c.IsDerivable(),
	}
}

// IsValid validates the score status tri-state.
func (s ScoreStatus) IsValid() bool {
	switch s {
	case StatusScore, StatusReview, StatusContradicts:
		return true
	default:
		return false
	}
}

// Counted reports whether an entry with this status contributes to the positive
// point subtotals. Review entries are held out until the curator promotes them;
// Contradicts entries count toward contradiction instead.
func (s ScoreStatus) Counted() bool {
	return s == StatusScore
}

// IsValid validates the contradictory evidence type.
func (t ContradictoryEvidenceType) IsValid() bool {
	switch t {
	case ContradictoryPopulation, ContradictorySegregation, ContradictoryFunctional,
		ContradictoryPhenotype, ContradictoryOther:
		return true
	default:
		return false
	}
}

// IsValid validates the contradiction impact level.
func (i ContradictionImpact) IsValid() bool {
	switch i {
	case ImpactDisputed, ImpactNote, ImpactRequiresReview:
		return true
	default:
		return false
	}
}

// IsValid validates the null variant class.
func (n NullVariantClass) IsValid() bool {
	switch n {
	case NullNonsense, NullFrameshift, NullCanonicalSpliceSite,
		NullInitiationCodon, NullExonDeletion, NullGenomicRearrangement:
		return true
	default:
		return false
	}
}

// IsValid validates the other variant class.
func (o OtherVariantClass) IsValid() bool {
	switch o {
	case OtherMissense, OtherCrypticSplice, OtherInFrameIndel, OtherRegulatory, OtherSynonymous:
		return true
	default:
		return false
	}
}

// IsValid validates the biallelic zygosity combination.
func (z BiallelicZygosity) IsValid() bool {
	switch z {
	case ZygosityTwoNull, ZygosityNullAndOther, ZygosityTwoOther:
		return true
	default:
		return false
	}
}

// IsValid validates the model organism.
func (m ModelOrganism) IsValid() bool {
	switch m {
	case OrganismMouse, OrganismRat, OrganismZebrafish, OrganismFly, OrganismWorm,
		OrganismYeast, OrganismOther:
		return true
	default:
		return false
	}
}

// CurationStatus represents the workflow stage of a curation record.
// Engine output is considered final only once the record is active.
type CurationStatus string

const (
	CurationDraft     CurationStatus = "draft"
	CurationSubmitted CurationStatus = "submitted"
	CurationInReview  CurationStatus = "in_review"
	CurationActive    CurationStatus = "active"
	CurationRejected  CurationStatus = "rejected"
)

// IsValid validates the workflow stage.
func (s CurationStatus) IsValid() bool {
	switch s {
	case CurationDraft, CurationSubmitted, CurationInReview, CurationActive, CurationRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the workflow permits moving from the current
// stage to the target stage. Rejected curations return to draft for rework.
func (s CurationStatus) CanTransitionTo(target CurationStatus) bool {
	var allowed []CurationStatus
	switch s {
	case CurationDraft:
		allowed = []CurationStatus{CurationSubmitted}
	case CurationSubmitted:
		allowed = []CurationStatus{CurationInReview, CurationDraft}
	case CurationInReview:
		allowed = []CurationStatus{CurationActive, CurationRejected}
	case CurationRejected:
		allowed = []CurationStatus{CurationDraft}
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// ValidateTransition returns a descriptive error when the workflow transition is
// not permitted.
func (s CurationStatus) ValidateTransition(target CurationStatus) error {
	if !target.IsValid() {
		return fmt.Errorf("workflow transition: invalid target status %q", target)
	}
	if !s.CanTransitionTo(target) {
		return fmt.Errorf("workflow transition %s -> %s: %w", s, target, ErrInvalidTransition)
	}
	return nil
}
