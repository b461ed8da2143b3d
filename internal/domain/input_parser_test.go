package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvidenceDocumentParser_Parse(t *testing.T) {
	parser := NewEvidenceDocumentParser()

	raw := []byte(`{
		"genetic_evidence": {
			"case_level": {
				"autosomal_dominant_or_x_linked": {
					"predicted_or_proven_null": [
						{
							"label": "proband 1",
							"pmid": "32581362",
							"variant_class": "nonsense",
							"score_status": "Score",
							"proband_counted_points": 2
						}
					],
					"other_variant_type": [
						{"label": "proband 2", "score_status": "Review", "proband_counted_points": 0.5}
					]
				},
				"autosomal_recessive": {
					"predicted_or_proven_null": [
						{"label": "proband 3", "zygosity": "two_null", "score_status": "Score", "proband_counted_points": 1.5}
					]
				}
			},
			"segregation": [
				{"label": "family A", "lod_score": 2.1, "segregations_counted": 7, "score_status": "Score", "points": 2}
			],
			"case_control": {
				"single_variant_analysis": [
					{"label": "cohort", "odds_ratio": 12.4, "p_value": 0.0003, "score_status": "Score", "points": 4}
				]
			}
		},
		"experimental_evidence": {
			"function": {
				"biochemical_function": [
					{"label": "enzyme assay", "score_status": "Score", "points": 0.5}
				]
			},
			"models": {
				"non_human_model_organism": [
					{"label": "knockout", "organism": "mouse", "score_status": "Score", "points": 2}
				]
			}
		},
		"contradictory_evidence": [
			{"label": "gnomAD frequency", "evidence_type": "population", "impact": "disputed"}
		]
	}`)

	doc, err := parser.Parse(raw)
	require.NoError(t, err)

	require.Len(t, doc.Genetic.CaseLevel.ADXL.PredictedOrProvenNull, 1)
	entry := doc.Genetic.CaseLevel.ADXL.PredictedOrProvenNull[0]
	assert.Equal(t, "proband 1", entry.Label)
	assert.Equal(t, "32581362", entry.PMID)
	assert.Equal(t, NullNonsense, entry.NullClass)
	assert.Equal(t, StatusScore, entry.ScoreStatus)
	assert.InDelta(t, 2.0, entry.ProbandCountedPoints, 1e-9)

	require.Len(t, doc.Genetic.CaseLevel.ADXL.OtherVariantType, 1)
	assert.Equal(t, StatusReview, doc.Genetic.CaseLevel.ADXL.OtherVariantType[0].ScoreStatus)

	require.Len(t, doc.Genetic.CaseLevel.AR.PredictedOrProvenNull, 1)
	assert.Equal(t, ZygosityTwoNull, doc.Genetic.CaseLevel.AR.PredictedOrProvenNull[0].Zygosity)

	require.Len(t, doc.Genetic.Segregation, 1)
	seg := doc.Genetic.Segregation[0]
	assert.InDelta(t, 2.1, seg.LODScore, 1e-9)
	assert.Equal(t, 7, seg.SegregationsCounted)

	require.Len(t, doc.Genetic.CaseControl.SingleVariantAnalysis, 1)
	assert.InDelta(t, 12.4, doc.Genetic.CaseControl.SingleVariantAnalysis[0].OddsRatio, 1e-9)

	require.Len(t, doc.Experimental.Models.NonHumanModelOrganism, 1)
	assert.Equal(t, OrganismMouse, doc.Experimental.Models.NonHumanModelOrganism[0].Organism)

	require.Len(t, doc.Contradictory, 1)
	assert.Equal(t, ContradictoryPopulation, doc.Contradictory[0].EvidenceType)
	assert.Equal(t, ImpactDisputed, doc.Contradictory[0].Impact)
}

func TestEvidenceDocumentParser_MissingSubtreesScoreEmpty(t *testing.T) {
	parser := NewEvidenceDocumentParser()

	doc, err := parser.Parse([]byte(`{}`))
	require.NoError(t, err)

	assert.Empty(t, doc.Genetic.CaseLevel.ADXL.PredictedOrProvenNull)
	assert.Empty(t, doc.Genetic.Segregation)
	assert.Empty(t, doc.Experimental.Rescue.Human)
	assert.Empty(t, doc.Contradictory)
}

func TestEvidenceDocumentParser_InvalidJSON(t *testing.T) {
	parser := NewEvidenceDocumentParser()

	_, err := parser.Parse([]byte(`{"genetic_evidence": [}`))
	assert.Error(t, err)
}

func TestEvidenceDocumentParser_NumericCoercion(t *testing.T) {
	parser := NewEvidenceDocumentParser()

	raw := []byte(`{
		"genetic_evidence": {
			"segregation": [
				{"label": "string number", "score_status": "Score", "points": "2.5"},
				{"label": "null points", "score_status": "Score", "points": null},
				{"label": "object points", "score_status": "Score", "points": {"value": 3}},
				{"label": "garbage string", "score_status": "Score", "points": "two"},
				{"label": "missing points", "score_status": "Score"}
			]
		}
	}`)

	doc, err := parser.Parse(raw)
	require.NoError(t, err)

	require.Len(t, doc.Genetic.Segregation, 5)
	assert.InDelta(t, 2.5, doc.Genetic.Segregation[0].Points, 1e-9)
	assert.Zero(t, doc.Genetic.Segregation[1].Points)
	assert.Zero(t, doc.Genetic.Segregation[2].Points)
	assert.Zero(t, doc.Genetic.Segregation[3].Points)
	assert.Zero(t, doc.Genetic.Segregation[4].Points)
}

func TestEvidenceDocumentParser_UnknownStatusHeldForReview(t *testing.T) {
	parser := NewEvidenceDocumentParser()

	raw := []byte(`{
		"genetic_evidence": {
			"segregation": [
				{"label": "typo status", "score_status": "score", "points": 1},
				{"label": "missing status", "points": 1}
			]
		}
	}`)

	doc, err := parser.Parse(raw)
	require.NoError(t, err)

	require.Len(t, doc.Genetic.Segregation, 2)
	assert.Equal(t, StatusReview, doc.Genetic.Segregation[0].ScoreStatus)
	assert.Equal(t, StatusReview, doc.Genetic.Segregation[1].ScoreStatus)
}

func TestEvidenceDocumentParser_UnknownContradictoryEnumsDefault(t *testing.T) {
	parser := NewEvidenceDocumentParser()

	raw := []byte(`{
		"contradictory_evidence": [
			{"label": "mystery", "evidence_type": "astrology", "impact": "catastrophic"}
		]
	}`)

	doc, err := parser.Parse(raw)
	require.NoError(t, err)

	require.Len(t, doc.Contradictory, 1)
	assert.Equal(t, ContradictoryOther, doc.Contradictory[0].EvidenceType)
	assert.Equal(t, ImpactNote, doc.Contradictory[0].Impact)
}

func TestEvidenceDocumentParser_NonObjectListItemsSkipped(t *testing.T) {
	parser := NewEvidenceDocumentParser()

	raw := []byte(`{
		"genetic_evidence": {
			"segregation": ["not an object", 42, {"label": "real entry", "score_status": "Score", "points": 1}]
		}
	}`)

	doc, err := parser.Parse(raw)
	require.NoError(t, err)

	require.Len(t, doc.Genetic.Segregation, 1)
	assert.Equal(t, "real entry", doc.Genetic.Segregation[0].Label)
}

func TestEvidenceDocumentParser_ParseMapFromDecodedJSON(t *testing.T) {
	parser := NewEvidenceDocumentParser()

	var root map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"experimental_evidence": {
			"rescue": {
				"human": [{"label": "gene therapy", "score_status": "Score", "points": 2}]
			}
		}
	}`), &root))

	doc := parser.ParseMap(root)

	require.Len(t, doc.Experimental.Rescue.Human, 1)
	assert.InDelta(t, 2.0, doc.Experimental.Rescue.Human[0].Points, 1e-9)
}
