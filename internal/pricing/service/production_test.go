package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunquotelabs/sunquote/internal/pricing/domain"
)

func TestEstimateProductionUsesRoofYield(t *testing.T) {
	roof := domain.RoofData{PerPanelYearlyKWH: 480}

	est, err := EstimateProduction(10, 440, roof, domain.SystemLosses{})
	require.NoError(t, err)
	require.True(t, est.UsedRoofYield)
	require.InDelta(t, 4800, est.AnnualKWH, 1e-6)

	var monthlySum float64
	for _, m := range est.MonthlyKWH {
		monthlySum += m
	}
	require.InDelta(t, est.AnnualKWH, monthlySum, 1e-6)
}

func TestEstimateProductionFallbackPeakSunHours(t *testing.T) {
	est, err := EstimateProduction(1, 440, domain.RoofData{}, domain.SystemLosses{})
	require.NoError(t, err)
	require.False(t, est.UsedRoofYield)
	// 0.44 kW x 4.4 h x 365 d x 0.80 PR
	require.InDelta(t, 565.312, est.AnnualKWH, 1e-3)
}

func TestEstimateProductionLinearInPanelCount(t *testing.T) {
	one, err := EstimateProduction(1, 440, domain.RoofData{PerPanelYearlyKWH: 500}, domain.SystemLosses{})
	require.NoError(t, err)
	twenty, err := EstimateProduction(20, 440, domain.RoofData{PerPanelYearlyKWH: 500}, domain.SystemLosses{})
	require.NoError(t, err)
	require.InDelta(t, one.AnnualKWH*20, twenty.AnnualKWH, 1e-6)
	require.InDelta(t, one.PerPanelYearlyKWH, twenty.PerPanelYearlyKWH, 1e-9)
}

func TestEstimateProductionRoofShadingOnlyOnFallback(t *testing.T) {
	shaded := domain.RoofData{ShadingLossPct: 10}
	fallback, err := EstimateProduction(1, 440, shaded, domain.SystemLosses{})
	require.NoError(t, err)
	clear, err := EstimateProduction(1, 440, domain.RoofData{}, domain.SystemLosses{})
	require.NoError(t, err)
	require.InDelta(t, clear.AnnualKWH*0.9, fallback.AnnualKWH, 1e-6)

	// Roof-sourced yields already fold shading in, so the loss is not
	// applied twice.
	roofShaded := domain.RoofData{PerPanelYearlyKWH: 480, ShadingLossPct: 10}
	est, err := EstimateProduction(1, 440, roofShaded, domain.SystemLosses{})
	require.NoError(t, err)
	require.InDelta(t, 480, est.AnnualKWH, 1e-6)
}

func TestEstimateProductionAppliesSystemLosses(t *testing.T) {
	losses := domain.SystemLosses{SoilingPct: 2, InverterEfficiencyPct: 97}
	est, err := EstimateProduction(1, 440, domain.RoofData{PerPanelYearlyKWH: 500}, losses)
	require.NoError(t, err)
	require.InDelta(t, 500*0.98*0.97, est.AnnualKWH, 1e-6)
}

func TestEstimateProductionRejectsInvalid(t *testing.T) {
	_, err := EstimateProduction(0, 440, domain.RoofData{}, domain.SystemLosses{})
	require.Error(t, err)
	_, err = EstimateProduction(10, 0, domain.RoofData{}, domain.SystemLosses{})
	require.Error(t, err)
}
