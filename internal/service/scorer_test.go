package service

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gene-validity-server/internal/domain"
)

func newTestScorer(t *testing.T) *ScoringService {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc, err := NewScoringService(logger)
	require.NoError(t, err)
	return svc
}

func sampleDocument() *domain.EvidenceDocument {
	return &domain.EvidenceDocument{
		Genetic: domain.GeneticEvidence{
			CaseLevel: domain.CaseLevelGroup{
				ADXL: domain.VariantBuckets{
					PredictedOrProvenNull: []domain.CaseLevelEvidence{
						{Label: "proband 1", ScoreStatus: domain.StatusScore, ProbandCountedPoints: 1.5},
						{Label: "proband 2", ScoreStatus: domain.StatusScore, ProbandCountedPoints: 2},
					},
				},
			},
			Segregation: []domain.SegregationEvidence{
				{Label: "family A", ScoreStatus: domain.StatusScore, LODScore: 1.8, Points: 2},
			},
			CaseControl: domain.CaseControlGroup{
				SingleVariantAnalysis: []domain.CaseControlEvidence{
					{Label: "cohort study", ScoreStatus: domain.StatusScore, Points: 3},
				},
			},
		},
		Experimental: domain.ExperimentalEvidence{
			Function: domain.FunctionGroup{
				BiochemicalFunction: []domain.ExperimentalStudy{
					{Label: "enzyme assay", ScoreStatus: domain.StatusScore, Points: 0.5},
				},
			},
			Models: domain.ModelsGroup{
				NonHumanModelOrganism: []domain.ExperimentalStudy{
					{Label: "mouse knockout", Organism: domain.OrganismMouse, ScoreStatus: domain.StatusScore, Points: 2},
				},
			},
		},
	}
}

func TestScoringService_Score(t *testing.T) {
	svc := newTestScorer(t)

	result := svc.Score(sampleDocument())

	assert.InDelta(t, 8.5, result.GeneticTotal, 1e-9)
	assert.InDelta(t, 2.5, result.ExperimentalTotal, 1e-9)
	assert.InDelta(t, 11.0, result.TotalScore, 1e-9)
	assert.Equal(t, domain.MODERATE, result.Classification)
	assert.False(t, result.Contradiction.HasContradiction)
	assert.Equal(t, EngineVersion, result.EngineVersion)
	assert.False(t, result.CalculatedAt.IsZero())
}

func TestScoringService_TotalIsSumOfHalves(t *testing.T) {
	svc := newTestScorer(t)

	result := svc.Score(sampleDocument())

	assert.InDelta(t, result.GeneticTotal+result.ExperimentalTotal, result.TotalScore, 1e-9)
	assert.InDelta(t, result.Subtotals.Genetic.Total, result.GeneticTotal, 1e-9)
	assert.InDelta(t, result.Subtotals.Experimental.Total, result.ExperimentalTotal, 1e-9)
}

func TestScoringService_Idempotent(t *testing.T) {
	svc := newTestScorer(t)
	doc := sampleDocument()

	first := svc.Score(doc)
	second := svc.Score(doc)

	assert.Equal(t, first.GeneticTotal, second.GeneticTotal)
	assert.Equal(t, first.ExperimentalTotal, second.ExperimentalTotal)
	assert.Equal(t, first.TotalScore, second.TotalScore)
	assert.Equal(t, first.Classification, second.Classification)
}

func TestScoringService_NilDocument(t *testing.T) {
	svc := newTestScorer(t)

	result := svc.Score(nil)

	assert.Zero(t, result.TotalScore)
	assert.Equal(t, domain.NO_KNOWN_DISEASE_RELATIONSHIP, result.Classification)
}

func TestScoringService_ScoreRaw(t *testing.T) {
	svc := newTestScorer(t)

	raw := []byte(`{
		"genetic_evidence": {
			"case_level": {
				"autosomal_dominant_or_x_linked": {
					"predicted_or_proven_null": [
						{"label": "proband 1", "score_status": "Score", "proband_counted_points": 1.5}
					]
				}
			}
		}
	}`)

	result, err := svc.ScoreRaw(raw)
	require.NoError(t, err)

	assert.InDelta(t, 1.5, result.GeneticTotal, 1e-9)
	assert.Equal(t, domain.LIMITED, result.Classification)

	// second call is served from the cache and must agree
	cached, err := svc.ScoreRaw(raw)
	require.NoError(t, err)
	assert.Equal(t, result.TotalScore, cached.TotalScore)
	assert.Equal(t, result.Classification, cached.Classification)
	assert.Equal(t, result.CalculatedAt, cached.CalculatedAt)
}

func TestScoringService_ScoreRawInvalidJSON(t *testing.T) {
	svc := newTestScorer(t)

	_, err := svc.ScoreRaw([]byte(`{"genetic_evidence": `))
	assert.Error(t, err)
}

func TestScoringService_ScoreRawMalformedValuesDegradeToZero(t *testing.T) {
	svc := newTestScorer(t)

	raw := []byte(`{
		"genetic_evidence": {
			"segregation": [
				{"label": "family", "score_status": "Score", "points": "not a number"}
			]
		}
	}`)

	result, err := svc.ScoreRaw(raw)
	require.NoError(t, err)
	assert.Zero(t, result.GeneticTotal)
}

func TestReport_RoundsForPresentation(t *testing.T) {
	result := &domain.ScoreResult{
		GeneticTotal:      8.999,
		ExperimentalTotal: 2.001,
		TotalScore:        11.0,
		Classification:    domain.MODERATE,
	}

	report := Report(result)

	assert.InDelta(t, 9.0, report.GeneticTotal, 1e-9)
	assert.InDelta(t, 2.0, report.ExperimentalTotal, 1e-9)
	assert.Equal(t, domain.MODERATE.Description(), report.Description)
	assert.NotEmpty(t, report.Color)
}
