package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gene-validity-server/internal/domain"
)

func study(points float64) domain.ExperimentalStudy {
	return domain.ExperimentalStudy{
		Label:       "functional study",
		ScoreStatus: domain.StatusScore,
		Points:      points,
	}
}

func TestCalculateExperimental_PillarCaps(t *testing.T) {
	ev := &domain.ExperimentalEvidence{
		Function: domain.FunctionGroup{
			BiochemicalFunction: []domain.ExperimentalStudy{study(2)},
			ProteinInteraction:  []domain.ExperimentalStudy{study(2)},
			Expression:          []domain.ExperimentalStudy{study(2)},
		},
		FunctionalAlteration: domain.FunctionalAlterationGroup{
			PatientCells:    []domain.ExperimentalStudy{study(2)},
			NonPatientCells: []domain.ExperimentalStudy{study(1)},
		},
		Models: domain.ModelsGroup{
			NonHumanModelOrganism: []domain.ExperimentalStudy{study(4)},
			CellCultureModel:      []domain.ExperimentalStudy{study(2)},
		},
		Rescue: domain.RescueGroup{
			Human:                 []domain.ExperimentalStudy{study(4)},
			NonHumanModelOrganism: []domain.ExperimentalStudy{study(4)},
			CellCulture:           []domain.ExperimentalStudy{study(2)},
			PatientCells:          []domain.ExperimentalStudy{study(2)},
		},
	}

	result := CalculateExperimental(ev)

	assert.InDelta(t, 2.0, result.Function, 1e-9)
	assert.InDelta(t, 2.0, result.FunctionalAlteration, 1e-9)
	assert.InDelta(t, 4.0, result.Models, 1e-9)
	assert.InDelta(t, 4.0, result.Rescue, 1e-9)
	// all four pillars maxed raw at 12, overall ceiling still applies
	assert.InDelta(t, 6.0, result.Total, 1e-9)
}

func TestCalculateExperimental_UncappedWhenBelowCeilings(t *testing.T) {
	ev := &domain.ExperimentalEvidence{
		Function: domain.FunctionGroup{
			BiochemicalFunction: []domain.ExperimentalStudy{study(0.5)},
			Expression:          []domain.ExperimentalStudy{study(0.5)},
		},
		Models: domain.ModelsGroup{
			NonHumanModelOrganism: []domain.ExperimentalStudy{study(2)},
		},
	}

	result := CalculateExperimental(ev)

	assert.InDelta(t, 1.0, result.Function, 1e-9)
	assert.InDelta(t, 2.0, result.Models, 1e-9)
	assert.Zero(t, result.FunctionalAlteration)
	assert.Zero(t, result.Rescue)
	assert.InDelta(t, 3.0, result.Total, 1e-9)
}

func TestCalculateExperimental_ReviewAndContradictsExcluded(t *testing.T) {
	ev := &domain.ExperimentalEvidence{
		Rescue: domain.RescueGroup{
			Human: []domain.ExperimentalStudy{
				study(2),
				{Label: "pending", ScoreStatus: domain.StatusReview, Points: 2},
				{Label: "failed rescue", ScoreStatus: domain.StatusContradicts, Points: 2},
			},
		},
	}

	result := CalculateExperimental(ev)

	assert.InDelta(t, 2.0, result.Rescue, 1e-9)
}

func TestCalculateExperimental_NilEvidence(t *testing.T) {
	result := CalculateExperimental(nil)
	assert.Zero(t, result.Total)
}
