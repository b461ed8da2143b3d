package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gene-validity-server/internal/domain"
)

func caseLevel(points float64) domain.CaseLevelEvidence {
	return domain.CaseLevelEvidence{
		Label:                "proband",
		ScoreStatus:          domain.StatusScore,
		ProbandCountedPoints: points,
	}
}

func caseControl(points float64) domain.CaseControlEvidence {
	return domain.CaseControlEvidence{
		Label:       "cohort study",
		ScoreStatus: domain.StatusScore,
		Points:      points,
	}
}

func TestCalculateGenetic_CaseLevelRawSums(t *testing.T) {
	ev := &domain.GeneticEvidence{
		CaseLevel: domain.CaseLevelGroup{
			ADXL: domain.VariantBuckets{
				PredictedOrProvenNull: []domain.CaseLevelEvidence{caseLevel(1.5), caseLevel(3)},
				OtherVariantType:      []domain.CaseLevelEvidence{caseLevel(0.1)},
			},
			AR: domain.VariantBuckets{
				PredictedOrProvenNull: []domain.CaseLevelEvidence{caseLevel(1.5)},
				OtherVariantType:      []domain.CaseLevelEvidence{caseLevel(0.5)},
			},
		},
	}

	result := CalculateGenetic(ev)

	assert.InDelta(t, 4.6, result.ADXL, 1e-9)
	assert.InDelta(t, 2.0, result.AR, 1e-9)
	assert.InDelta(t, 6.6, result.Total, 1e-9)
}

func TestCalculateGenetic_SegregationCapped(t *testing.T) {
	ev := &domain.GeneticEvidence{
		Segregation: []domain.SegregationEvidence{
			seg(3, domain.StatusScore),
			seg(3, domain.StatusScore),
			seg(4, domain.StatusScore),
		},
	}

	result := CalculateGenetic(ev)

	assert.InDelta(t, 3.0, result.Segregation, 1e-9, "segregation items summing to 10 cap at 3")
}

func TestCalculateGenetic_CaseControlTakesLargerMethod(t *testing.T) {
	tests := []struct {
		name      string
		single    float64
		aggregate float64
		expected  float64
	}{
		{"aggregate larger, capped", 4, 7, 6},
		{"single larger", 2, 1, 2},
		{"equal methods", 3, 3, 3},
		{"both empty", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &domain.GeneticEvidence{
				CaseControl: domain.CaseControlGroup{
					SingleVariantAnalysis:    []domain.CaseControlEvidence{caseControl(tt.single)},
					AggregateVariantAnalysis: []domain.CaseControlEvidence{caseControl(tt.aggregate)},
				},
			}
			result := CalculateGenetic(ev)
			assert.InDelta(t, tt.expected, result.CaseControl, 1e-9)
		})
	}
}

func TestCalculateGenetic_TotalNeverExceedsCap(t *testing.T) {
	ev := &domain.GeneticEvidence{
		CaseLevel: domain.CaseLevelGroup{
			ADXL: domain.VariantBuckets{
				PredictedOrProvenNull: []domain.CaseLevelEvidence{caseLevel(20)},
			},
			AR: domain.VariantBuckets{
				PredictedOrProvenNull: []domain.CaseLevelEvidence{caseLevel(20)},
			},
		},
		Segregation: []domain.SegregationEvidence{seg(20, domain.StatusScore)},
		CaseControl: domain.CaseControlGroup{
			SingleVariantAnalysis: []domain.CaseControlEvidence{caseControl(20)},
		},
	}

	result := CalculateGenetic(ev)

	assert.InDelta(t, 12.0, result.Total, 1e-9)
}

func TestCalculateGenetic_ContradictsExcluded(t *testing.T) {
	ev := &domain.GeneticEvidence{
		CaseLevel: domain.CaseLevelGroup{
			ADXL: domain.VariantBuckets{
				PredictedOrProvenNull: []domain.CaseLevelEvidence{
					caseLevel(1.5),
					{Label: "conflicting proband", ScoreStatus: domain.StatusContradicts, ProbandCountedPoints: 3},
				},
			},
		},
	}

	result := CalculateGenetic(ev)

	assert.InDelta(t, 1.5, result.ADXL, 1e-9)
}

func TestCalculateGenetic_NilEvidence(t *testing.T) {
	result := CalculateGenetic(nil)
	assert.Zero(t, result.Total)
}
