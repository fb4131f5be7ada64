package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunquotelabs/sunquote/internal/pricing/domain"
)

func TestEstimateConsumptionProfileComponents(t *testing.T) {
	est, err := EstimateConsumption(domain.HouseholdProfile{
		Occupants:        4,
		ACTier:           domain.UsageTierModerate,
		Pool:             domain.PoolUnheated,
		ElectricHotWater: true,
	})
	require.NoError(t, err)

	// 4.0 base + 4x1.5 occupants + 4.0 AC + 3.0 pool + 3.5 hot water
	require.InDelta(t, 20.5, est.DailyKWH, 1e-9)
	require.InDelta(t, 20.5*365, est.AnnualKWH, 1e-6)
	require.False(t, est.FromOverride)
}

func TestEstimateConsumptionOverrideWins(t *testing.T) {
	override := 20.0
	est, err := EstimateConsumption(domain.HouseholdProfile{
		Occupants:                   6,
		ACTier:                      domain.UsageTierHigh,
		Pool:                        domain.PoolHeated,
		DailyConsumptionOverrideKWH: &override,
	})
	require.NoError(t, err)
	require.Equal(t, 20.0, est.DailyKWH)
	require.True(t, est.FromOverride)
}

func TestEstimateConsumptionFloor(t *testing.T) {
	est, err := EstimateConsumption(domain.HouseholdProfile{})
	require.NoError(t, err)
	require.Equal(t, 6.0, est.DailyKWH)
}

func TestEstimateConsumptionOverrideBelowFloorStands(t *testing.T) {
	override := 4.0
	est, err := EstimateConsumption(domain.HouseholdProfile{
		DailyConsumptionOverrideKWH: &override,
	})
	require.NoError(t, err)
	require.Equal(t, 4.0, est.DailyKWH)
	require.True(t, est.FromOverride)
}

func TestEstimateConsumptionLoadShapeSumsToOne(t *testing.T) {
	for _, window := range []domain.ChargingWindow{domain.ChargeDaytime, domain.ChargeOvernight} {
		est, err := EstimateConsumption(domain.HouseholdProfile{
			Occupants:        3,
			EVCount:          1,
			EVUsageTier:      domain.UsageTierModerate,
			EVChargingWindow: window,
		})
		require.NoError(t, err)

		var sum float64
		for _, f := range est.LoadShape {
			sum += f
		}
		require.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestEstimateConsumptionEVWindowShiftsLoad(t *testing.T) {
	base, err := EstimateConsumption(domain.HouseholdProfile{Occupants: 3})
	require.NoError(t, err)

	daytime, err := EstimateConsumption(domain.HouseholdProfile{
		Occupants:        3,
		EVCount:          1,
		EVUsageTier:      domain.UsageTierHigh,
		EVChargingWindow: domain.ChargeDaytime,
	})
	require.NoError(t, err)

	overnight, err := EstimateConsumption(domain.HouseholdProfile{
		Occupants:        3,
		EVCount:          1,
		EVUsageTier:      domain.UsageTierHigh,
		EVChargingWindow: domain.ChargeOvernight,
	})
	require.NoError(t, err)

	require.Greater(t, daytime.LoadShape[12], base.LoadShape[12])
	require.Greater(t, overnight.LoadShape[1], base.LoadShape[1])
	require.Greater(t, daytime.LoadShape[12], overnight.LoadShape[12])
}

func TestEstimateConsumptionRejectsInvalid(t *testing.T) {
	_, err := EstimateConsumption(domain.HouseholdProfile{Occupants: -1})
	require.Error(t, err)

	bad := -5.0
	_, err = EstimateConsumption(domain.HouseholdProfile{DailyConsumptionOverrideKWH: &bad})
	require.Error(t, err)

	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "daily_consumption_override_kwh", invalid.Field)
}

func TestEveningLoadKW(t *testing.T) {
	est, err := EstimateConsumption(domain.HouseholdProfile{Occupants: 4})
	require.NoError(t, err)
	// Evening window average must exceed the flat daily average for a
	// shape with an evening peak.
	require.Greater(t, est.EveningLoadKW(), est.DailyKWH/24)
}
