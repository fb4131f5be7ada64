package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	"github.com/sunquotelabs/sunquote/internal/pricing/domain"
)

func TestSizeSystemFixedKWRoundsUp(t *testing.T) {
	tpl := testTemplate(catalogdomain.SolarSizingFixedKW, 6.3, catalogdomain.BatterySizingNone, 0)
	production := domain.ProductionEstimate{PerPanelYearlyKWH: 500}

	sizing, err := SizeSystem(tpl, domain.ConsumptionEstimate{}, production, 440, domain.RoofData{}, testSnapshot())
	require.NoError(t, err)

	// 6300 W / 440 W = 14.3 panels, rounded up. The installed array may
	// exceed the nominal size, never undershoot it.
	require.Equal(t, 15, sizing.PanelCount)
	require.InDelta(t, 6.6, sizing.SystemKW, 1e-9)
}

func TestSizeSystemCoveragePercentMeetsFloor(t *testing.T) {
	consumption := domain.ConsumptionEstimate{DailyKWH: 20, AnnualKWH: 7300}
	production := domain.ProductionEstimate{PerPanelYearlyKWH: 480}
	tpl := testTemplate(catalogdomain.SolarSizingCoveragePercent, 100, catalogdomain.BatterySizingNone, 0)

	sizing, err := SizeSystem(tpl, consumption, production, 440, domain.RoofData{MaxPanelCount: 40}, testSnapshot())
	require.NoError(t, err)

	// Production at the sized count covers at least the target share.
	require.GreaterOrEqual(t, float64(sizing.PanelCount)*production.PerPanelYearlyKWH, consumption.AnnualKWH)
	require.Equal(t, 16, sizing.PanelCount)
	require.False(t, sizing.CoverageLimited)
}

func TestSizeSystemRoofCapFlagsCoverageLimited(t *testing.T) {
	consumption := domain.ConsumptionEstimate{DailyKWH: 40, AnnualKWH: 14600}
	production := domain.ProductionEstimate{PerPanelYearlyKWH: 480}
	tpl := testTemplate(catalogdomain.SolarSizingCoveragePercent, 100, catalogdomain.BatterySizingNone, 0)

	sizing, err := SizeSystem(tpl, consumption, production, 440, domain.RoofData{MaxPanelCount: 18}, testSnapshot())
	require.NoError(t, err)
	require.Equal(t, 18, sizing.PanelCount)
	require.True(t, sizing.CoverageLimited)
}

func TestSizeSystemBatteryNearestAtOrAbove(t *testing.T) {
	// No 10 kWh product exists; 9.6 and 13.5 do. The policy picks the
	// nearest at or above and records the substitution, never the smaller
	// unit.
	tpl := testTemplate(catalogdomain.SolarSizingFixedKW, 6.6, catalogdomain.BatterySizingFixedKWH, 10)
	production := domain.ProductionEstimate{PerPanelYearlyKWH: 500}

	sizing, err := SizeSystem(tpl, domain.ConsumptionEstimate{}, production, 440, domain.RoofData{}, testSnapshot())
	require.NoError(t, err)
	require.Equal(t, 13.5, sizing.BatteryKWH)
	require.Equal(t, 10.0, sizing.RequestedBatteryKWH)
	require.True(t, sizing.BatterySubstituted)
}

func TestSizeSystemBatteryExactMatchNotSubstituted(t *testing.T) {
	tpl := testTemplate(catalogdomain.SolarSizingFixedKW, 6.6, catalogdomain.BatterySizingFixedKWH, 13.5)
	production := domain.ProductionEstimate{PerPanelYearlyKWH: 500}

	sizing, err := SizeSystem(tpl, domain.ConsumptionEstimate{}, production, 440, domain.RoofData{}, testSnapshot())
	require.NoError(t, err)
	require.Equal(t, 13.5, sizing.BatteryKWH)
	require.False(t, sizing.BatterySubstituted)
}

func TestSizeSystemBatteryBeyondToleranceFails(t *testing.T) {
	// 2 kWh requested; smallest unit is 9.6, far beyond the tolerance
	// band. The engine must fail with alternatives, not quote a unit
	// nearly five times the request.
	tpl := testTemplate(catalogdomain.SolarSizingFixedKW, 6.6, catalogdomain.BatterySizingFixedKWH, 2)
	production := domain.ProductionEstimate{PerPanelYearlyKWH: 500}

	_, err := SizeSystem(tpl, domain.ConsumptionEstimate{}, production, 440, domain.RoofData{}, testSnapshot())
	require.Error(t, err)

	var noProduct *domain.NoSuitableProductError
	require.ErrorAs(t, err, &noProduct)
	require.Equal(t, "battery", noProduct.ProductType)
	require.NotEmpty(t, noProduct.Nearest)
}

func TestSizeSystemCoverageHoursBattery(t *testing.T) {
	consumption, err := EstimateConsumption(domain.HouseholdProfile{Occupants: 4, ACTier: domain.UsageTierHigh, Pool: domain.PoolHeated, ElectricHotWater: true, ElectricCooking: true})
	require.NoError(t, err)

	tpl := testTemplate(catalogdomain.SolarSizingFixedKW, 6.6, catalogdomain.BatterySizingCoverageHours, 4)
	production := domain.ProductionEstimate{PerPanelYearlyKWH: 500}

	sizing, err := SizeSystem(tpl, consumption, production, 440, domain.RoofData{}, testSnapshot())
	require.NoError(t, err)
	require.InDelta(t, 4*consumption.EveningLoadKW(), sizing.RequestedBatteryKWH, 1e-9)
	require.GreaterOrEqual(t, sizing.BatteryKWH, sizing.RequestedBatteryKWH)
}
