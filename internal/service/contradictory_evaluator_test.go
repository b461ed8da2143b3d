package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gene-validity-server/internal/domain"
)

func TestEvaluateContradictions_Empty(t *testing.T) {
	result := EvaluateContradictions(nil)

	assert.False(t, result.HasContradiction)
	assert.Zero(t, result.DisputedCount)
	assert.Zero(t, result.RequiresReviewCount)
}

func TestEvaluateContradictions_CountsByImpact(t *testing.T) {
	entries := []domain.ContradictoryEvidence{
		{EvidenceType: domain.ContradictoryPopulation, Impact: domain.ImpactDisputed},
		{EvidenceType: domain.ContradictoryFunctional, Impact: domain.ImpactDisputed},
		{EvidenceType: domain.ContradictorySegregation, Impact: domain.ImpactRequiresReview},
		{EvidenceType: domain.ContradictoryOther, Impact: domain.ImpactNote},
	}

	result := EvaluateContradictions(entries)

	assert.True(t, result.HasContradiction)
	assert.Equal(t, 2, result.DisputedCount)
	assert.Equal(t, 1, result.RequiresReviewCount)
}

func TestEvaluateContradictions_NoteOnlyStillFlags(t *testing.T) {
	entries := []domain.ContradictoryEvidence{
		{EvidenceType: domain.ContradictoryPhenotype, Impact: domain.ImpactNote},
	}

	result := EvaluateContradictions(entries)

	assert.True(t, result.HasContradiction)
	assert.Zero(t, result.DisputedCount)
	assert.Zero(t, result.RequiresReviewCount)
}
