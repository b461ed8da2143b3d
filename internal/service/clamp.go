package service

import "github.com/gene-validity-server/internal/domain"

// ClampDocument bounds every entry's points to its bucket's declared range.
// This is the entry-time guard: it runs when a document is created or edited
// through the API, never during aggregation, so values already stored are
// summed as-is.
func ClampDocument(doc *domain.EvidenceDocument) {
	if doc == nil {
		return
	}

	clampCaseLevel(doc.Genetic.CaseLevel.ADXL.PredictedOrProvenNull, domain.CategoryADXLNull)
	clampCaseLevel(doc.Genetic.CaseLevel.ADXL.OtherVariantType, domain.CategoryADXLOther)
	clampCaseLevel(doc.Genetic.CaseLevel.AR.PredictedOrProvenNull, domain.CategoryARNull)
	clampCaseLevel(doc.Genetic.CaseLevel.AR.OtherVariantType, domain.CategoryAROther)

	for i := range doc.Genetic.Segregation {
		doc.Genetic.Segregation[i].Points = domain.CategorySegregation.Clamp(doc.Genetic.Segregation[i].Points)
	}
	clampCaseControl(doc.Genetic.CaseControl.SingleVariantAnalysis, domain.CategoryCaseControlSingle)
	clampCaseControl(doc.Genetic.CaseControl.AggregateVariantAnalysis, domain.CategoryCaseControlAggregate)

	clampStudies(doc.Experimental.Function.BiochemicalFunction, domain.CategoryBiochemicalFunction)
	clampStudies(doc.Experimental.Function.ProteinInteraction, domain.CategoryProteinInteraction)
	clampStudies(doc.Experimental.Function.Expression, domain.CategoryExpression)
	clampStudies(doc.Experimental.FunctionalAlteration.PatientCells, domain.CategoryPatientCells)
	clampStudies(doc.Experimental.FunctionalAlteration.NonPatientCells, domain.CategoryNonPatientCells)
	clampStudies(doc.Experimental.Models.NonHumanModelOrganism, domain.CategoryNonHumanModel)
	clampStudies(doc.Experimental.Models.CellCultureModel, domain.CategoryCellCultureModel)
	clampStudies(doc.Experimental.Rescue.Human, domain.CategoryRescueHuman)
	clampStudies(doc.Experimental.Rescue.NonHumanModelOrganism, domain.CategoryRescueNonHumanModel)
	clampStudies(doc.Experimental.Rescue.CellCulture, domain.CategoryRescueCellCulture)
	clampStudies(doc.Experimental.Rescue.PatientCells, domain.CategoryRescuePatientCells)
}

func clampCaseLevel(items []domain.CaseLevelEvidence, category domain.EvidenceCategory) {
	for i := range items {
		items[i].ProbandCountedPoints = category.Clamp(items[i].ProbandCountedPoints)
	}
}

func clampCaseControl(items []domain.CaseControlEvidence, category domain.EvidenceCategory) {
	for i := range items {
		items[i].Points = category.Clamp(items[i].Points)
	}
}

func clampStudies(items []domain.ExperimentalStudy, category domain.EvidenceCategory) {
	for i := range items {
		items[i].Points = category.Clamp(items[i].Points)
	}
}
