package service

import (
	"github.com/gene-validity-server/internal/domain"
)

// Classify maps the genetic and experimental totals to a validity
// classification via the SOP decision table, evaluated top to bottom with the
// first match winning.
//
// The comparison uses the unrounded sums: rounding happens only at
// presentation time, and classifying rounded values would flicker at the
// category boundaries. Disputed and Refuted are never returned here; they are
// reviewer-assigned labels recorded outside the scoring path.
func Classify(geneticTotal, experimentalTotal float64) domain.Classification {
	total := geneticTotal + experimentalTotal

	switch {
	case total >= 12 && geneticTotal >= 6:
		return domain.DEFINITIVE
	case total >= 12 && geneticTotal >= 4.5:
		return domain.STRONG
	case total >= 9 && geneticTotal >= 3:
		return domain.MODERATE
	case total >= 1:
		return domain.LIMITED
	default:
		return domain.NO_KNOWN_DISEASE_RELATIONSHIP
	}
}
