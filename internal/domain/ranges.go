package domain

// EvidenceCategory names one scorable evidence bucket. Every bucket declares a
// per-item point range and a default used by the editor when a new entry is
// created.
type EvidenceCategory string

const (
	CategoryADXLNull             EvidenceCategory = "adxl_predicted_or_proven_null"
	CategoryADXLOther            EvidenceCategory = "adxl_other_variant_type"
	CategoryARNull               EvidenceCategory = "ar_predicted_or_proven_null"
	CategoryAROther              EvidenceCategory = "ar_other_variant_type"
	CategorySegregation          EvidenceCategory = "segregation"
	CategoryCaseControlSingle    EvidenceCategory = "case_control_single_variant"
	CategoryCaseControlAggregate EvidenceCategory = "case_control_aggregate_variant"
	CategoryBiochemicalFunction  EvidenceCategory = "biochemical_function"
	CategoryProteinInteraction   EvidenceCategory = "protein_interaction"
	CategoryExpression           EvidenceCategory = "expression"
	CategoryPatientCells         EvidenceCategory = "functional_alteration_patient_cells"
	CategoryNonPatientCells      EvidenceCategory = "functional_alteration_non_patient_cells"
	CategoryNonHumanModel        EvidenceCategory = "non_human_model_organism"
	CategoryCellCultureModel     EvidenceCategory = "cell_culture_model"
	CategoryRescueHuman          EvidenceCategory = "rescue_human"
	CategoryRescueNonHumanModel  EvidenceCategory = "rescue_non_human_model_organism"
	CategoryRescueCellCulture    EvidenceCategory = "rescue_cell_culture"
	CategoryRescuePatientCells   EvidenceCategory = "rescue_patient_cells"
)

// PointRange declares the per-item [Min, Max] bounds and the editor default for
// one evidence bucket.
type PointRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

// pointRanges is the SOP scoring matrix. Clamping to these bounds happens at
// entry time in the editor surface; the aggregation path sums stored values
// as-is.
var pointRanges = map[EvidenceCategory]PointRange{
	CategoryADXLNull:             {Min: 0, Max: 3, Default: 1.5},
	CategoryADXLOther:            {Min: 0, Max: 1.5, Default: 0.1},
	CategoryARNull:               {Min: 0, Max: 3, Default: 1.5},
	CategoryAROther:              {Min: 0, Max: 1.5, Default: 0.1},
	CategorySegregation:          {Min: 0, Max: 3},
	CategoryCaseControlSingle:    {Min: 0, Max: 6},
	CategoryCaseControlAggregate: {Min: 0, Max: 6},
	CategoryBiochemicalFunction:  {Min: 0, Max: 2, Default: 0.5},
	CategoryProteinInteraction:   {Min: 0, Max: 2, Default: 0.5},
	CategoryExpression:           {Min: 0, Max: 2, Default: 0.5},
	CategoryPatientCells:         {Min: 0, Max: 2, Default: 1},
	CategoryNonPatientCells:      {Min: 0, Max: 1, Default: 0.5},
	CategoryNonHumanModel:        {Min: 0, Max: 4, Default: 2},
	CategoryCellCultureModel:     {Min: 0, Max: 2, Default: 1},
	CategoryRescueHuman:          {Min: 0, Max: 4, Default: 2},
	CategoryRescueNonHumanModel:  {Min: 0, Max: 4, Default: 2},
	CategoryRescueCellCulture:    {Min: 0, Max: 2, Default: 1},
	CategoryRescuePatientCells:   {Min: 0, Max: 2, Default: 1},
}

// Category-level and total score ceilings.
const (
	SegregationCap          = 3.0
	CaseControlCap          = 6.0
	GeneticTotalCap         = 12.0
	FunctionCap             = 2.0
	FunctionalAlterationCap = 2.0
	ModelsCap               = 4.0
	RescueCap               = 4.0
	ExperimentalTotalCap    = 6.0
)

// Range returns the declared per-item point range for the category. Unknown
// categories return a zero range, which clamps everything to 0.
func (c EvidenceCategory) Range() PointRange {
	return pointRanges[c]
}

// EvidenceCategories returns every scorable category in scoring-matrix order.
func EvidenceCategories() []EvidenceCategory {
	return []EvidenceCategory{
		CategoryADXLNull,
		CategoryADXLOther,
		CategoryARNull,
		CategoryAROther,
		CategorySegregation,
		CategoryCaseControlSingle,
		CategoryCaseControlAggregate,
		CategoryBiochemicalFunction,
		CategoryProteinInteraction,
		CategoryExpression,
		CategoryPatientCells,
		CategoryNonPatientCells,
		CategoryNonHumanModel,
		CategoryCellCultureModel,
		CategoryRescueHuman,
		CategoryRescueNonHumanModel,
		CategoryRescueCellCulture,
		CategoryRescuePatientCells,
	}
}

// DefaultPoints returns the editor default for a new entry in the category.
func (c EvidenceCategory) DefaultPoints() float64 {
	return pointRanges[c].Default
}

// Clamp bounds points to the category's declared range. This is the entry-time
// guard applied when an entry is created or edited; values already stored are
// trusted by the aggregation path.
func (c EvidenceCategory) Clamp(points float64) float64 {
	r := pointRanges[c]
	if points < r.Min {
		return r.Min
	}
	if points > r.Max {
		return r.Max
	}
	return points
}

// LODScorePoints maps a LOD score onto the segregation points guidance band.
// The band is informational: the curator enters points manually and may
// deviate; the engine never enforces it.
func LODScorePoints(lod float64) float64 {
	switch {
	case lod > 2.4:
		return 3
	case lod >= 1.2:
		return 2
	case lod >= 0.6:
		return 1
	default:
		return 0
	}
}
