package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// EvidenceDocumentParser builds a typed EvidenceDocument from the loosely-typed
// evidence_data JSON owned by the curation editor. Parsing is deliberately
// forgiving: malformed or missing numeric fields coerce to 0 and absent
// subtrees become empty lists, so a partially-filled or bulk-imported document
// always scores instead of erroring. Field-level validation is the editor's
// responsibility, not the parser's.
type EvidenceDocumentParser struct{}

// NewEvidenceDocumentParser creates a new evidence document parser.
func NewEvidenceDocumentParser() *EvidenceDocumentParser {
	return &EvidenceDocumentParser{}
}

// Parse decodes a raw evidence_data document. Only structurally broken JSON is
// an error; every field-level problem degrades to a zero value.
func (p *EvidenceDocumentParser) Parse(raw []byte) (*EvidenceDocument, error) {
	var root map[string]interface{}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("parsing evidence document: %w", err)
	}
	return p.ParseMap(root), nil
}

// ParseMap builds a document from an already-decoded JSON object.
func (p *EvidenceDocumentParser) ParseMap(root map[string]interface{}) *EvidenceDocument {
	doc := &EvidenceDocument{}

	genetic := childMap(root, "genetic_evidence")
	caseLevel := childMap(genetic, "case_level")
	adxl := childMap(caseLevel, "autosomal_dominant_or_x_linked")
	ar := childMap(caseLevel, "autosomal_recessive")

	doc.Genetic.CaseLevel.ADXL.PredictedOrProvenNull = parseCaseLevelList(childList(adxl, "predicted_or_proven_null"))
	doc.Genetic.CaseLevel.ADXL.OtherVariantType = parseCaseLevelList(childList(adxl, "other_variant_type"))
	doc.Genetic.CaseLevel.AR.PredictedOrProvenNull = parseCaseLevelList(childList(ar, "predicted_or_proven_null"))
	doc.Genetic.CaseLevel.AR.OtherVariantType = parseCaseLevelList(childList(ar, "other_variant_type"))

	doc.Genetic.Segregation = parseSegregationList(childList(genetic, "segregation"))

	caseControl := childMap(genetic, "case_control")
	doc.Genetic.CaseControl.SingleVariantAnalysis = parseCaseControlList(childList(caseControl, "single_variant_analysis"))
	doc.Genetic.CaseControl.AggregateVariantAnalysis = parseCaseControlList(childList(caseControl, "aggregate_variant_analysis"))

	experimental := childMap(root, "experimental_evidence")
	function := childMap(experimental, "function")
	doc.Experimental.Function.BiochemicalFunction = parseStudyList(childList(function, "biochemical_function"))
	doc.Experimental.Function.ProteinInteraction = parseStudyList(childList(function, "protein_interaction"))
	doc.Experimental.Function.Expression = parseStudyList(childList(function, "expression"))

	alteration := childMap(experimental, "functional_alteration")
	doc.Experimental.FunctionalAlteration.PatientCells = parseStudyList(childList(alteration, "patient_cells"))
	doc.Experimental.FunctionalAlteration.NonPatientCells = parseStudyList(childList(alteration, "non_patient_cells"))

	models := childMap(experimental, "models")
	doc.Experimental.Models.NonHumanModelOrganism = parseStudyList(childList(models, "non_human_model_organism"))
	doc.Experimental.Models.CellCultureModel = parseStudyList(childList(models, "cell_culture_model"))

	rescue := childMap(experimental, "rescue")
	doc.Experimental.Rescue.Human = parseStudyList(childList(rescue, "human"))
	doc.Experimental.Rescue.NonHumanModelOrganism = parseStudyList(childList(rescue, "non_human_model_organism"))
	doc.Experimental.Rescue.CellCulture = parseStudyList(childList(rescue, "cell_culture"))
	doc.Experimental.Rescue.PatientCells = parseStudyList(childList(rescue, "patient_cells"))

	doc.Contradictory = parseContradictoryList(childList(root, "contradictory_evidence"))

	return doc
}

func parseCaseLevelList(items []interface{}) []CaseLevelEvidence {
	if len(items) == 0 {
		return nil
	}
	out := make([]CaseLevelEvidence, 0, len(items))
	for _, raw := range items {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, CaseLevelEvidence{
			Label:                stringField(m, "label"),
			PMID:                 stringField(m, "pmid"),
			VariantHGVS:          stringField(m, "variant_hgvs"),
			NullClass:            NullVariantClass(stringField(m, "variant_class")),
			OtherClass:           OtherVariantClass(stringField(m, "other_variant_class")),
			Zygosity:             BiallelicZygosity(stringField(m, "zygosity")),
			ScoreStatus:          parseScoreStatus(m),
			ProbandCountedPoints: numericOrZero(m["proband_counted_points"]),
			Explanation:          stringField(m, "explanation"),
		})
	}
	return out
}

func parseSegregationList(items []interface{}) []SegregationEvidence {
	if len(items) == 0 {
		return nil
	}
	out := make([]SegregationEvidence, 0, len(items))
	for _, raw := range items {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, SegregationEvidence{
			Label:               stringField(m, "label"),
			PMID:                stringField(m, "pmid"),
			LODScore:            numericOrZero(m["lod_score"]),
			SegregationsCounted: int(numericOrZero(m["segregations_counted"])),
			ScoreStatus:         parseScoreStatus(m),
			Points:              numericOrZero(m["points"]),
			Explanation:         stringField(m, "explanation"),
		})
	}
	return out
}

func parseCaseControlList(items []interface{}) []CaseControlEvidence {
	if len(items) == 0 {
		return nil
	}
	out := make([]CaseControlEvidence, 0, len(items))
	for _, raw := range items {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, CaseControlEvidence{
			Label:               stringField(m, "label"),
			PMID:                stringField(m, "pmid"),
			CasesWithVariant:    int(numericOrZero(m["cases_with_variant"])),
			CasesTotal:          int(numericOrZero(m["cases_total"])),
			ControlsWithVariant: int(numericOrZero(m["controls_with_variant"])),
			ControlsTotal:       int(numericOrZero(m["controls_total"])),
			OddsRatio:           numericOrZero(m["odds_ratio"]),
			PValue:              numericOrZero(m["p_value"]),
			ScoreStatus:         parseScoreStatus(m),
			Points:              numericOrZero(m["points"]),
			Explanation:         stringField(m, "explanation"),
		})
	}
	return out
}

func parseStudyList(items []interface{}) []ExperimentalStudy {
	if len(items) == 0 {
		return nil
	}
	out := make([]ExperimentalStudy, 0, len(items))
	for _, raw := range items {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, ExperimentalStudy{
			Label:       stringField(m, "label"),
			PMID:        stringField(m, "pmid"),
			Organism:    ModelOrganism(stringField(m, "organism")),
			ScoreStatus: parseScoreStatus(m),
			Points:      numericOrZero(m["points"]),
			Explanation: stringField(m, "explanation"),
		})
	}
	return out
}

func parseContradictoryList(items []interface{}) []ContradictoryEvidence {
	if len(items) == 0 {
		return nil
	}
	out := make([]ContradictoryEvidence, 0, len(items))
	for _, raw := range items {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		entry := ContradictoryEvidence{
			Label:        stringField(m, "label"),
			PMID:         stringField(m, "pmid"),
			EvidenceType: ContradictoryEvidenceType(stringField(m, "evidence_type")),
			Description:  stringField(m, "description"),
			Impact:       ContradictionImpact(stringField(m, "impact")),
			Explanation:  stringField(m, "explanation"),
		}
		if !entry.EvidenceType.IsValid() {
			entry.EvidenceType = ContradictoryOther
		}
		if !entry.Impact.IsValid() {
			entry.Impact = ImpactNote
		}
		out = append(out, entry)
	}
	return out
}

// parseScoreStatus defaults unknown statuses to Review so that suspicious
// entries are held out of the positive subtotal rather than silently counted.
func parseScoreStatus(m map[string]interface{}) ScoreStatus {
	s := ScoreStatus(stringField(m, "score_status"))
	if !s.IsValid() {
		return StatusReview
	}
	return s
}

// numericOrZero coerces a decoded JSON value to float64, treating anything
// non-numeric (null, objects, unparseable strings) as 0 so a single bad field
// can never poison a subtotal with NaN.
func numericOrZero(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func childMap(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	if c, ok := m[key].(map[string]interface{}); ok {
		return c
	}
	return nil
}

func childList(m map[string]interface{}, key string) []interface{} {
	if m == nil {
		return nil
	}
	if l, ok := m[key].([]interface{}); ok {
		return l
	}
	return nil
}
