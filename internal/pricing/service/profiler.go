package service

import (
	"github.com/sunquotelabs/sunquote/internal/pricing/domain"
)

// Daily kWh contributions per household characteristic. Derived from
// retailer load research for detached homes in the serviced region.
const (
	baselineDailyKWH   = 4.0
	perOccupantKWH     = 1.5
	homeOfficeKWH      = 1.5
	hotWaterKWH        = 3.5
	electricCookingKWH = 1.5

	// Minimum plausible household draw. All-zero inputs still price a
	// system against this floor, never zero consumption.
	minimumDailyKWH = 6.0
)

var acTierKWH = map[domain.UsageTier]float64{
	domain.UsageTierNone:     0,
	domain.UsageTierLow:      1.5,
	domain.UsageTierModerate: 4.0,
	domain.UsageTierHigh:     7.0,
}

var poolKWH = map[domain.PoolType]float64{
	domain.PoolNone:     0,
	domain.PoolUnheated: 3.0,
	domain.PoolHeated:   8.0,
}

var evTierKWH = map[domain.UsageTier]float64{
	domain.UsageTierNone:     0,
	domain.UsageTierLow:      2.5,
	domain.UsageTierModerate: 5.0,
	domain.UsageTierHigh:     8.0,
}

// baseLoadShape is the hour-by-hour fraction of daily consumption for a
// typical household without EV charging: a morning shoulder, a daytime
// trough and an evening peak. Entries sum to 1.
var baseLoadShape = [24]float64{
	0.015, 0.012, 0.011, 0.011, 0.012, 0.020, // 00-05
	0.040, 0.055, 0.050, 0.040, 0.037, 0.035, // 06-11
	0.035, 0.035, 0.037, 0.040, 0.050, 0.075, // 12-17
	0.090, 0.095, 0.085, 0.065, 0.035, 0.020, // 18-23
}

// EstimateConsumption turns declared household characteristics into an
// average-daily-kWh estimate plus an hourly load shape. A measured override
// always takes precedence over the profile-derived figure; the two are
// never blended.
func EstimateConsumption(p domain.HouseholdProfile) (domain.ConsumptionEstimate, error) {
	if p.Occupants < 0 {
		return domain.ConsumptionEstimate{}, domain.NewInvalidInput("occupants", "must not be negative")
	}
	if p.HomeOffices < 0 {
		return domain.ConsumptionEstimate{}, domain.NewInvalidInput("home_offices", "must not be negative")
	}
	if p.EVCount < 0 {
		return domain.ConsumptionEstimate{}, domain.NewInvalidInput("ev_count", "must not be negative")
	}
	if p.DailyConsumptionOverrideKWH != nil && *p.DailyConsumptionOverrideKWH <= 0 {
		return domain.ConsumptionEstimate{}, domain.NewInvalidInput("daily_consumption_override_kwh", "must be positive")
	}

	evDaily := float64(p.EVCount) * evTierKWH[p.EVUsageTier]

	var daily float64
	fromOverride := false
	if p.DailyConsumptionOverrideKWH != nil {
		daily = *p.DailyConsumptionOverrideKWH
		fromOverride = true
	} else {
		daily = baselineDailyKWH +
			float64(p.Occupants)*perOccupantKWH +
			acTierKWH[p.ACTier] +
			poolKWH[p.Pool] +
			float64(p.HomeOffices)*homeOfficeKWH +
			evDaily
		if p.ElectricHotWater {
			daily += hotWaterKWH
		}
		if p.ElectricCooking {
			daily += electricCookingKWH
		}
		// The floor guards the additive model only; a measured override
		// stands as given.
		if daily < minimumDailyKWH {
			daily = minimumDailyKWH
		}
	}

	shape := buildLoadShape(daily, evDaily, p.EVChargingWindow)

	return domain.ConsumptionEstimate{
		DailyKWH:     daily,
		AnnualKWH:    daily * 365,
		LoadShape:    shape,
		FromOverride: fromOverride,
	}, nil
}

// buildLoadShape layers EV charging onto the base household shape. EV
// energy lands in the declared charging window; the remainder follows the
// base curve.
func buildLoadShape(dailyKWH, evDailyKWH float64, window domain.ChargingWindow) [24]float64 {
	if evDailyKWH <= 0 || evDailyKWH >= dailyKWH {
		return baseLoadShape
	}

	evFraction := evDailyKWH / dailyKWH
	baseFraction := 1 - evFraction

	var evHours []int
	switch window {
	case domain.ChargeDaytime:
		evHours = []int{10, 11, 12, 13, 14, 15}
	default:
		evHours = []int{22, 23, 0, 1, 2, 3}
	}

	var shape [24]float64
	for h := 0; h < 24; h++ {
		shape[h] = baseLoadShape[h] * baseFraction
	}
	perHour := evFraction / float64(len(evHours))
	for _, h := range evHours {
		shape[h] += perHour
	}
	return shape
}
