package service

import (
	"github.com/gene-validity-server/internal/domain"
)

// EvaluateContradictions inspects contradictory-evidence entries and produces
// the advisory contradiction assessment.
//
// The assessment is surfaced to the surrounding workflow so a reviewer can
// weigh a Disputed or Refuted verdict, but it never feeds the classification
// decision table: deriving those labels automatically is a product decision
// that has not been made.
func EvaluateContradictions(items []domain.ContradictoryEvidence) domain.ContradictionAssessment {
	assessment := domain.ContradictionAssessment{
		HasContradiction: len(items) > 0,
	}
	for _, item := range items {
		switch item.Impact {
		case domain.ImpactDisputed:
			assessment.DisputedCount++
		case domain.ImpactRequiresReview:
			assessment.RequiresReviewCount++
		}
	}
	return assessment
}
