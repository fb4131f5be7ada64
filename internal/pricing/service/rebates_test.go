package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sunquotelabs/sunquote/internal/pricing/domain"
)

var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func TestCalculateRebatesCertificateCount(t *testing.T) {
	snap := testSnapshot()
	settings := testSettings()
	sizing := domain.Sizing{SystemKW: 7.04}
	costs := domain.CostBreakdown{TotalBeforeRebates: 10000}

	out, err := CalculateRebates(snap, settings, sizing, costs, 6000, "WA", testNow)
	require.NoError(t, err)

	// Deeming runs through 2030: 5 whole years from 2026.
	require.Equal(t, 5, out.DeemingYears)
	// floor(7.04 x 1.382 x 5) = floor(48.65) = 48
	require.Equal(t, 48, out.CertificateCount)
	require.InDelta(t, 48*39.40, out.SolarRebate, 1e-9)
	require.InDelta(t, costs.TotalBeforeRebates-out.TotalRebates, out.TotalAfterRebates, 1e-9)
}

func TestCalculateRebatesUnknownZone(t *testing.T) {
	_, err := CalculateRebates(testSnapshot(), testSettings(), domain.Sizing{SystemKW: 6.6}, domain.CostBreakdown{}, 3000, "WA", testNow)
	var unknown *domain.UnknownZoneError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, 3000, unknown.Postcode)
}

func TestCalculateRebatesBatteryBrackets(t *testing.T) {
	snap := testSnapshot()
	settings := testSettings()
	costs := domain.CostBreakdown{TotalBeforeRebates: 30000}

	cases := []struct {
		kwh     float64
		federal float64
	}{
		{4, 0},
		{5, 1650},
		{9.6, 1650},
		{10, 3300},
		{13.5, 4450},
		{20, 6600},
	}
	for _, tc := range cases {
		out, err := CalculateRebates(snap, settings, domain.Sizing{SystemKW: 6.6, BatteryKWH: tc.kwh}, costs, 6000, "WA", testNow)
		require.NoError(t, err)
		require.Equal(t, tc.federal, out.FederalBatteryRebate, "kwh %v", tc.kwh)
	}
}

func TestCalculateRebatesStateRebateGatedOnState(t *testing.T) {
	snap := testSnapshot()
	settings := testSettings()
	sizing := domain.Sizing{SystemKW: 6.6, BatteryKWH: 9.6}
	costs := domain.CostBreakdown{TotalBeforeRebates: 30000}

	inState, err := CalculateRebates(snap, settings, sizing, costs, 6000, "wa", testNow)
	require.NoError(t, err)
	require.Equal(t, 1300.0, inState.StateBatteryRebate)

	outOfState, err := CalculateRebates(snap, settings, sizing, costs, 6000, "NSW", testNow)
	require.NoError(t, err)
	require.Equal(t, 0.0, outOfState.StateBatteryRebate)
}

func TestCalculateRebatesTotalAfterFloorsAtZero(t *testing.T) {
	out, err := CalculateRebates(testSnapshot(), testSettings(), domain.Sizing{SystemKW: 6.6, BatteryKWH: 13.5}, domain.CostBreakdown{TotalBeforeRebates: 1000}, 6000, "WA", testNow)
	require.NoError(t, err)
	require.Equal(t, 0.0, out.TotalAfterRebates)
}

func TestCalculateRebatesDeemingNeverNegative(t *testing.T) {
	settings := testSettings()
	after := time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC)

	out, err := CalculateRebates(testSnapshot(), settings, domain.Sizing{SystemKW: 6.6}, domain.CostBreakdown{TotalBeforeRebates: 10000}, 6000, "WA", after)
	require.NoError(t, err)
	require.Equal(t, 0, out.DeemingYears)
	require.Equal(t, 0.0, out.SolarRebate)
}
