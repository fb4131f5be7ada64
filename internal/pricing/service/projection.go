package service

import (
	"math"

	"github.com/sunquotelabs/sunquote/internal/pricing/domain"
	settingsdomain "github.com/sunquotelabs/sunquote/internal/settings/domain"
)

const (
	projectionYears = 25

	// Hours per day the grid connection can export at the limit. Used to
	// convert an export limit in kW into an annual exportable energy cap.
	exportWindowHours = 5.0

	maxSelfConsumptionRatio = 0.95
)

// Project simulates 25 years of operation: production declines with
// degradation, the retail tariff escalates, the feed-in rate stays flat,
// and exported energy is clipped at the connection's export limit. The
// inverter replacement cost is deducted once in its configured year.
func Project(
	totalCostAfterRebates float64,
	production domain.ProductionEstimate,
	consumption domain.ConsumptionEstimate,
	sizing domain.Sizing,
	settings settingsdomain.Settings,
) domain.Projection {
	selfRatio := selfConsumptionRatio(consumption, sizing)

	exportCapKWH := math.Inf(1)
	if settings.ExportLimitKW > 0 {
		exportCapKWH = settings.ExportLimitKW * exportWindowHours * 365
	}

	out := domain.Projection{SelfConsumptionRatio: selfRatio}

	var cumulative, npv float64
	var previousCumulative float64
	paybackFound := false
	var lastYearSaving float64

	for year := 1; year <= projectionYears; year++ {
		prodKWH := production.AnnualKWH * math.Pow(1-settings.DegradationRate, float64(year-1))

		selfKWH := math.Min(prodKWH*selfRatio, consumption.AnnualKWH)
		exportableKWH := prodKWH - selfKWH
		exportedKWH := math.Min(exportableKWH, exportCapKWH)

		if year == 1 {
			out.CurtailedKWHYear1 = exportableKWH - exportedKWH
		}

		tariff := settings.TariffPerKWH * math.Pow(1+settings.EscalationRate, float64(year-1))
		saving := selfKWH*tariff + exportedKWH*settings.FeedInPerKWH
		if year == settings.InverterReplacementYear {
			saving -= settings.InverterReplacementCost
		}

		previousCumulative = cumulative
		cumulative += saving
		npv += saving / math.Pow(1+settings.DiscountRate, float64(year))
		lastYearSaving = saving

		if year == 1 {
			out.AnnualSavings = saving
		}
		if year == 10 {
			out.Year10Savings = cumulative
		}

		if !paybackFound && cumulative >= totalCostAfterRebates && saving > 0 {
			out.PaybackYears = float64(year-1) + (totalCostAfterRebates-previousCumulative)/saving
			paybackFound = true
		}
	}

	out.Year25Savings = cumulative
	out.NPV = npv - totalCostAfterRebates

	if totalCostAfterRebates > 0 {
		out.ROI = cumulative / totalCostAfterRebates
	}

	// System never pays back inside the horizon: extrapolate with the
	// final year's saving so the caller still gets a finite figure.
	if !paybackFound {
		if lastYearSaving > 0 {
			out.PaybackYears = projectionYears + (totalCostAfterRebates-cumulative)/lastYearSaving
		} else {
			out.PaybackYears = 0
		}
	}

	return out
}

// selfConsumptionRatio derives the on-site use fraction from the load
// shape: the daytime load fraction is met directly by solar, and a battery
// shifts up to its capacity of the remaining daily load onto solar as well.
func selfConsumptionRatio(consumption domain.ConsumptionEstimate, sizing domain.Sizing) float64 {
	var daytimeFraction float64
	for h := 8; h < 17; h++ {
		daytimeFraction += consumption.LoadShape[h]
	}

	ratio := daytimeFraction
	if sizing.BatteryKWH > 0 && consumption.DailyKWH > 0 {
		shiftable := math.Min(sizing.BatteryKWH/consumption.DailyKWH, 1-daytimeFraction)
		ratio += shiftable
	}

	if ratio > maxSelfConsumptionRatio {
		ratio = maxSelfConsumptionRatio
	}
	if ratio < 0 {
		ratio = 0
	}
	return ratio
}
