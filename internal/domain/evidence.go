package domain

// ScoredEvidence is implemented by every evidence entry that carries curator
// points. CountedPoints returns the numeric value the aggregator consumes;
// Status returns the curator tri-state that decides whether the entry counts
// toward the positive subtotal.
type ScoredEvidence interface {
	CountedPoints() float64
	Status() ScoreStatus
}

// CaseLevelEvidence is a single proband or variant observation contributing to
// the AD/XL or AR case-level buckets. Exactly one of NullClass, OtherClass is
// set depending on which bucket the entry lives in; Zygosity is set only for
// autosomal recessive entries.
type CaseLevelEvidence struct {
	Label       string            `json:"label"`
	PMID        string            `json:"pmid,omitempty"`
	VariantHGVS string            `json:"variant_hgvs,omitempty"`
	NullClass   NullVariantClass  `json:"variant_class,omitempty"`
	OtherClass  OtherVariantClass `json:"other_variant_class,omitempty"`
	Zygosity    BiallelicZygosity `json:"zygosity,omitempty"`
	ScoreStatus ScoreStatus       `json:"score_status"`
	// ProbandCountedPoints is clamped to the bucket's declared range at entry
	// time; the engine sums whatever is stored.
	ProbandCountedPoints float64 `json:"proband_counted_points"`
	Explanation          string  `json:"explanation,omitempty"`
}

// CountedPoints implements ScoredEvidence.
func (e CaseLevelEvidence) CountedPoints() float64 { return e.ProbandCountedPoints }

// Status implements ScoredEvidence.
func (e CaseLevelEvidence) Status() ScoreStatus { return e.ScoreStatus }

// SegregationEvidence is one family segregation study. Points are derived
// manually by the curator from the LOD score using the guidance band in
// LODScorePoints; the engine does not enforce the band.
type SegregationEvidence struct {
	Label               string      `json:"label"`
	PMID                string      `json:"pmid,omitempty"`
	LODScore            float64     `json:"lod_score,omitempty"`
	SegregationsCounted int         `json:"segregations_counted,omitempty"`
	ScoreStatus         ScoreStatus `json:"score_status"`
	Points              float64     `json:"points"`
	Explanation         string      `json:"explanation,omitempty"`
}

// CountedPoints implements ScoredEvidence.
func (e SegregationEvidence) CountedPoints() float64 { return e.Points }

// Status implements ScoredEvidence.
func (e SegregationEvidence) Status() ScoreStatus { return e.ScoreStatus }

// CaseControlEvidence is one case-control association study, either a
// single-variant or aggregate-variant analysis.
type CaseControlEvidence struct {
	Label               string      `json:"label"`
	PMID                string      `json:"pmid,omitempty"`
	CasesWithVariant    int         `json:"cases_with_variant,omitempty"`
	CasesTotal          int         `json:"cases_total,omitempty"`
	ControlsWithVariant int         `json:"controls_with_variant,omitempty"`
	ControlsTotal       int         `json:"controls_total,omitempty"`
	OddsRatio           float64     `json:"odds_ratio,omitempty"`
	PValue              float64     `json:"p_value,omitempty"`
	ScoreStatus         ScoreStatus `json:"score_status"`
	Points              float64     `json:"points"`
	Explanation         string      `json:"explanation,omitempty"`
}

// CountedPoints implements ScoredEvidence.
func (e CaseControlEvidence) CountedPoints() float64 { return e.Points }

// Status implements ScoredEvidence.
func (e CaseControlEvidence) Status() ScoreStatus { return e.ScoreStatus }

// ExperimentalStudy is one functional, functional-alteration, model, or rescue
// study contributing to an experimental pillar.
type ExperimentalStudy struct {
	Label       string        `json:"label"`
	PMID        string        `json:"pmid,omitempty"`
	Organism    ModelOrganism `json:"organism,omitempty"`
	ScoreStatus ScoreStatus   `json:"score_status"`
	Points      float64       `json:"points"`
	Explanation string        `json:"explanation,omitempty"`
}

// CountedPoints implements ScoredEvidence.
func (e ExperimentalStudy) CountedPoints() float64 { return e.Points }

// Status implements ScoredEvidence.
func (e ExperimentalStudy) Status() ScoreStatus { return e.ScoreStatus }

// ContradictoryEvidence is an entry arguing against the gene-disease
// relationship. It never contributes points; it feeds the advisory
// contradiction assessment.
type ContradictoryEvidence struct {
	Label        string                    `json:"label"`
	PMID         string                    `json:"pmid,omitempty"`
	EvidenceType ContradictoryEvidenceType `json:"evidence_type"`
	Description  string                    `json:"description,omitempty"`
	Impact       ContradictionImpact       `json:"impact"`
	Explanation  string                    `json:"explanation,omitempty"`
}

// VariantBuckets holds the two case-level point buckets for one inheritance
// pattern.
type VariantBuckets struct {
	PredictedOrProvenNull []CaseLevelEvidence `json:"predicted_or_proven_null,omitempty"`
	OtherVariantType      []CaseLevelEvidence `json:"other_variant_type,omitempty"`
}

// CaseLevelGroup splits case-level evidence by inheritance pattern.
type CaseLevelGroup struct {
	ADXL VariantBuckets `json:"autosomal_dominant_or_x_linked"`
	AR   VariantBuckets `json:"autosomal_recessive"`
}

// CaseControlGroup splits case-control studies by analysis method. The two
// methods assess the same underlying association; the calculator takes the
// larger of the two subtotals, never their sum.
type CaseControlGroup struct {
	SingleVariantAnalysis    []CaseControlEvidence `json:"single_variant_analysis,omitempty"`
	AggregateVariantAnalysis []CaseControlEvidence `json:"aggregate_variant_analysis,omitempty"`
}

// GeneticEvidence is the genetic half of the evidence document.
type GeneticEvidence struct {
	CaseLevel   CaseLevelGroup        `json:"case_level"`
	Segregation []SegregationEvidence `json:"segregation,omitempty"`
	CaseControl CaseControlGroup      `json:"case_control"`
}

// FunctionGroup holds the three function-evidence buckets.
type FunctionGroup struct {
	BiochemicalFunction []ExperimentalStudy `json:"biochemical_function,omitempty"`
	ProteinInteraction  []ExperimentalStudy `json:"protein_interaction,omitempty"`
	Expression          []ExperimentalStudy `json:"expression,omitempty"`
}

// FunctionalAlterationGroup holds the two functional-alteration buckets.
type FunctionalAlterationGroup struct {
	PatientCells    []ExperimentalStudy `json:"patient_cells,omitempty"`
	NonPatientCells []ExperimentalStudy `json:"non_patient_cells,omitempty"`
}

// ModelsGroup holds the two disease-model buckets.
type ModelsGroup struct {
	NonHumanModelOrganism []ExperimentalStudy `json:"non_human_model_organism,omitempty"`
	CellCultureModel      []ExperimentalStudy `json:"cell_culture_model,omitempty"`
}

// RescueGroup holds the four rescue buckets.
type RescueGroup struct {
	Human                 []ExperimentalStudy `json:"human,omitempty"`
	NonHumanModelOrganism []ExperimentalStudy `json:"non_human_model_organism,omitempty"`
	CellCulture           []ExperimentalStudy `json:"cell_culture,omitempty"`
	PatientCells          []ExperimentalStudy `json:"patient_cells,omitempty"`
}

// ExperimentalEvidence is the experimental half of the evidence document.
type ExperimentalEvidence struct {
	Function             FunctionGroup             `json:"function"`
	FunctionalAlteration FunctionalAlterationGroup `json:"functional_alteration"`
	Models               ModelsGroup               `json:"models"`
	Rescue               RescueGroup               `json:"rescue"`
}

// EvidenceDocument is the nested evidence tree owned by the curation editor.
// The engine reads it, never mutates it. Missing subtrees are valid and
// contribute zero points.
type EvidenceDocument struct {
	Genetic       GeneticEvidence         `json:"genetic_evidence"`
	Experimental  ExperimentalEvidence    `json:"experimental_evidence"`
	Contradictory []ContradictoryEvidence `json:"contradictory_evidence,omitempty"`
}
