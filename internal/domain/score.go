package domain

import (
	"math"
	"time"
)

// GeneticBreakdown holds the capped genetic category subtotals. ADXL and AR are
// raw sums; segregation and case-control carry category-level caps; Total is
// bounded by GeneticTotalCap.
type GeneticBreakdown struct {
	ADXL        float64 `json:"adxl"`
	AR          float64 `json:"ar"`
	Segregation float64 `json:"segregation"`
	CaseControl float64 `json:"caseControl"`
	Total       float64 `json:"geneticTotal"`
}

// ExperimentalBreakdown holds the capped experimental pillar subtotals. Each
// pillar is individually bounded, then Total is bounded by ExperimentalTotalCap.
type ExperimentalBreakdown struct {
	Function             float64 `json:"function"`
	FunctionalAlteration float64 `json:"functionalAlteration"`
	Models               float64 `json:"models"`
	Rescue               float64 `json:"rescue"`
	Total                float64 `json:"experimentalTotal"`
}

// ScoreBreakdown combines both halves for display and audit payloads.
type ScoreBreakdown struct {
	Genetic      GeneticBreakdown      `json:"genetic"`
	Experimental ExperimentalBreakdown `json:"experimental"`
}

// ContradictionAssessment is the advisory output of the contradictory-evidence
// evaluator. It is surfaced to the surrounding workflow but never feeds the
// classification decision table; a Disputed or Refuted verdict remains an
// expert-reviewer decision.
type ContradictionAssessment struct {
	HasContradiction    bool `json:"hasContradiction"`
	DisputedCount       int  `json:"disputedCount"`
	RequiresReviewCount int  `json:"requiresReviewCount"`
}

// ScoreResult is the full engine output for one evidence document.
// GeneticTotal, ExperimentalTotal and TotalScore are unrounded sums; callers
// round for presentation only.
type ScoreResult struct {
	GeneticTotal      float64                 `json:"geneticTotal"`
	ExperimentalTotal float64                 `json:"experimentalTotal"`
	TotalScore        float64                 `json:"totalScore"`
	Classification    Classification          `json:"classification"`
	Subtotals         ScoreBreakdown          `json:"subtotals"`
	Contradiction     ContradictionAssessment `json:"contradiction"`
	CalculatedAt      time.Time               `json:"calculated_at"`
	EngineVersion     string                  `json:"engine_version"`
}

// Round2 rounds to two decimal places for presentation. The decision table
// compares unrounded sums; rounding exists only for display and report text.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
