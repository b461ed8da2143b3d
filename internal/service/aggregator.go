package service

import (
	"math"

	"github.com/gene-validity-server/internal/domain"
)

// SumPoints returns the raw point total for a list of scored evidence entries.
//
// The sum is order-invariant and performs no deduplication: duplicate entries
// are a curator responsibility, not an engine concern. Entries whose status is
// not Score are excluded — Review entries are pending curator sign-off and
// Contradicts entries count toward contradiction, not the positive subtotal.
// NaN and infinite stored values are treated as 0 so they cannot poison the
// total. No clamping is applied here; per-item bounds are enforced at entry
// time by the editor surface.
func SumPoints[E domain.ScoredEvidence](items []E) float64 {
	var total float64
	for _, item := range items {
		if !item.Status().Counted() {
			continue
		}
		p := item.CountedPoints()
		if math.IsNaN(p) || math.IsInf(p, 0) {
			continue
		}
		total += p
	}
	return total
}

// capped bounds a subtotal to its category ceiling.
func capped(sum, cap float64) float64 {
	return math.Min(sum, cap)
}
