package service

import (
	"math"

	"github.com/gene-validity-server/internal/domain"
)

// CalculateGenetic composes the four genetic category aggregations into a
// capped genetic subtotal.
//
// The AD/XL and AR case-level subtotals are raw sums of their null and
// other-variant buckets with no intermediate cap. Segregation is capped at the
// category ceiling. The two case-control analysis methods assess the same
// underlying association, so the larger of the two is taken — never their
// sum — before the shared ceiling applies. The combined genetic total is then
// bounded by the SOP's genetic ceiling.
func CalculateGenetic(ev *domain.GeneticEvidence) domain.GeneticBreakdown {
	if ev == nil {
		return domain.GeneticBreakdown{}
	}

	adxl := SumPoints(ev.CaseLevel.ADXL.PredictedOrProvenNull) +
		SumPoints(ev.CaseLevel.ADXL.OtherVariantType)
	ar := SumPoints(ev.CaseLevel.AR.PredictedOrProvenNull) +
		SumPoints(ev.CaseLevel.AR.OtherVariantType)

	segregation := capped(SumPoints(ev.Segregation), domain.SegregationCap)

	single := SumPoints(ev.CaseControl.SingleVariantAnalysis)
	aggregate := SumPoints(ev.CaseControl.AggregateVariantAnalysis)
	caseControl := capped(math.Max(single, aggregate), domain.CaseControlCap)

	total := capped(adxl+ar+segregation+caseControl, domain.GeneticTotalCap)

	return domain.GeneticBreakdown{
		ADXL:        adxl,
		AR:          ar,
		Segregation: segregation,
		CaseControl: caseControl,
		Total:       total,
	}
}
