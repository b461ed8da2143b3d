package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gene-validity-server/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		genetic      float64
		experimental float64
		want         domain.Classification
	}{
		{"definitive at exact thresholds", 6, 6, domain.DEFINITIVE},
		{"strong when genetic below definitive floor", 4.5, 7.5, domain.STRONG},
		{"moderate at exact thresholds", 3, 6, domain.MODERATE},
		{"limited with minimal evidence", 0.5, 0.5, domain.LIMITED},
		{"no relationship with no evidence", 0, 0, domain.NO_KNOWN_DISEASE_RELATIONSHIP},
		{"definitive with high genetic alone", 12, 0, domain.DEFINITIVE},
		{"moderate when total high but genetic thin", 3, 9, domain.MODERATE},
		{"limited just below moderate total", 3, 5.9, domain.LIMITED},
		{"moderate when total meets twelve but genetic under four point five", 4, 8, domain.MODERATE},
		{"limited when total meets twelve but genetic under three", 2.5, 9.5, domain.LIMITED},
		{"limited at exactly one", 1, 0, domain.LIMITED},
		{"no relationship just below one", 0.99, 0, domain.NO_KNOWN_DISEASE_RELATIONSHIP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.genetic, tt.experimental)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_UnroundedComparison(t *testing.T) {
	// 3 + 5.995 rounds to 9.0 for display but the raw total is 8.995, so the
	// moderate threshold is not met.
	got := Classify(3, 5.995)
	assert.Equal(t, domain.LIMITED, got)
}
