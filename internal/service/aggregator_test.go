package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gene-validity-server/internal/domain"
)

func seg(points float64, status domain.ScoreStatus) domain.SegregationEvidence {
	return domain.SegregationEvidence{Label: "family study", ScoreStatus: status, Points: points}
}

func TestSumPoints_Basic(t *testing.T) {
	items := []domain.SegregationEvidence{
		seg(1, domain.StatusScore),
		seg(2, domain.StatusScore),
		seg(0.5, domain.StatusScore),
	}
	assert.InDelta(t, 3.5, SumPoints(items), 1e-9)
}

func TestSumPoints_OrderInvariant(t *testing.T) {
	forward := []domain.SegregationEvidence{
		seg(0.1, domain.StatusScore),
		seg(1.5, domain.StatusScore),
		seg(2, domain.StatusScore),
	}
	reversed := []domain.SegregationEvidence{forward[2], forward[1], forward[0]}

	assert.Equal(t, SumPoints(forward), SumPoints(reversed))
}

func TestSumPoints_DuplicatesCountTwice(t *testing.T) {
	item := seg(1.5, domain.StatusScore)
	items := []domain.SegregationEvidence{item, item}

	assert.InDelta(t, 3.0, SumPoints(items), 1e-9)
}

func TestSumPoints_ExcludesContradictsAndReview(t *testing.T) {
	items := []domain.SegregationEvidence{
		seg(2, domain.StatusScore),
		seg(3, domain.StatusContradicts),
		seg(1, domain.StatusReview),
	}
	assert.InDelta(t, 2.0, SumPoints(items), 1e-9)
}

func TestSumPoints_IgnoresNaNAndInf(t *testing.T) {
	items := []domain.SegregationEvidence{
		seg(1, domain.StatusScore),
		seg(math.NaN(), domain.StatusScore),
		seg(math.Inf(1), domain.StatusScore),
	}
	total := SumPoints(items)
	assert.False(t, math.IsNaN(total))
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestSumPoints_EmptyList(t *testing.T) {
	assert.Zero(t, SumPoints([]domain.SegregationEvidence(nil)))
}
