package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunquotelabs/sunquote/internal/pricing/domain"
)

func projectionInputs(t *testing.T) (domain.ProductionEstimate, domain.ConsumptionEstimate) {
	t.Helper()
	consumption, err := EstimateConsumption(domain.HouseholdProfile{Occupants: 4, ACTier: domain.UsageTierModerate, ElectricHotWater: true})
	require.NoError(t, err)
	production, err := EstimateProduction(16, 440, domain.RoofData{PerPanelYearlyKWH: 480}, domain.SystemLosses{})
	require.NoError(t, err)
	return production, consumption
}

func TestProjectPaybackWithinHorizon(t *testing.T) {
	production, consumption := projectionInputs(t)

	out := Project(6000, production, consumption, domain.Sizing{}, testSettings())
	require.Greater(t, out.PaybackYears, 0.0)
	require.Less(t, out.PaybackYears, 25.0)
	require.Greater(t, out.Year25Savings, out.Year10Savings)
	require.Greater(t, out.Year10Savings, out.AnnualSavings)
	require.Greater(t, out.ROI, 1.0)
}

func TestProjectExportClipping(t *testing.T) {
	production, consumption := projectionInputs(t)

	unlimited := testSettings()
	unlimited.ExportLimitKW = 0
	free := Project(6000, production, consumption, domain.Sizing{}, unlimited)
	require.Equal(t, 0.0, free.CurtailedKWHYear1)

	limited := testSettings()
	limited.ExportLimitKW = 1.0
	capped := Project(6000, production, consumption, domain.Sizing{}, limited)
	require.Greater(t, capped.CurtailedKWHYear1, 0.0)
	require.Less(t, capped.AnnualSavings, free.AnnualSavings)
}

func TestProjectBatteryRaisesSelfConsumption(t *testing.T) {
	production, consumption := projectionInputs(t)

	without := Project(6000, production, consumption, domain.Sizing{}, testSettings())
	with := Project(6000, production, consumption, domain.Sizing{BatteryKWH: 9.6}, testSettings())
	require.Greater(t, with.SelfConsumptionRatio, without.SelfConsumptionRatio)
	require.LessOrEqual(t, with.SelfConsumptionRatio, 0.95)
}

func TestProjectInverterReplacementDeducted(t *testing.T) {
	production, consumption := projectionInputs(t)

	settings := testSettings()
	settings.InverterReplacementCost = 0
	noReplacement := Project(6000, production, consumption, domain.Sizing{}, settings)

	settings.InverterReplacementCost = 2200
	withReplacement := Project(6000, production, consumption, domain.Sizing{}, settings)
	require.InDelta(t, 2200, noReplacement.Year25Savings-withReplacement.Year25Savings, 1e-6)
}

func TestProjectDegradationReducesLaterYears(t *testing.T) {
	production, consumption := projectionInputs(t)

	settings := testSettings()
	settings.EscalationRate = 0
	settings.DegradationRate = 0.02
	out := Project(6000, production, consumption, domain.Sizing{}, settings)

	// With flat tariffs and degrading output, 25-year cumulative savings
	// fall short of 25x the first year.
	require.Less(t, out.Year25Savings, out.AnnualSavings*25)
}

func TestProjectNeverPaysBackExtrapolates(t *testing.T) {
	production, consumption := projectionInputs(t)

	out := Project(1_000_000, production, consumption, domain.Sizing{}, testSettings())
	require.Greater(t, out.PaybackYears, 25.0)
	require.False(t, math.IsInf(out.PaybackYears, 0))
	require.Less(t, out.ROI, 1.0)
}
