package service

import (
	"github.com/gene-validity-server/internal/domain"
)

// CalculateExperimental composes the four experimental pillar aggregations
// into a capped experimental subtotal.
//
// Each pillar is bounded individually so no single line of experimental work
// can dominate, and the combined total is bounded by the SOP's experimental
// ceiling: the pillar caps sum to 12 while the overall ceiling is 6, so both
// caps are load-bearing.
func CalculateExperimental(ev *domain.ExperimentalEvidence) domain.ExperimentalBreakdown {
	if ev == nil {
		return domain.ExperimentalBreakdown{}
	}

	function := capped(
		SumPoints(ev.Function.BiochemicalFunction)+
			SumPoints(ev.Function.ProteinInteraction)+
			SumPoints(ev.Function.Expression),
		domain.FunctionCap)

	alteration := capped(
		SumPoints(ev.FunctionalAlteration.PatientCells)+
			SumPoints(ev.FunctionalAlteration.NonPatientCells),
		domain.FunctionalAlterationCap)

	models := capped(
		SumPoints(ev.Models.NonHumanModelOrganism)+
			SumPoints(ev.Models.CellCultureModel),
		domain.ModelsCap)

	rescue := capped(
		SumPoints(ev.Rescue.Human)+
			SumPoints(ev.Rescue.NonHumanModelOrganism)+
			SumPoints(ev.Rescue.CellCulture)+
			SumPoints(ev.Rescue.PatientCells),
		domain.RescueCap)

	total := capped(function+alteration+models+rescue, domain.ExperimentalTotalCap)

	return domain.ExperimentalBreakdown{
		Function:             function,
		FunctionalAlteration: alteration,
		Models:               models,
		Rescue:               rescue,
		Total:                total,
	}
}
