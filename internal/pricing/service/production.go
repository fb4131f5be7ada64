package service

import (
	"github.com/sunquotelabs/sunquote/internal/pricing/domain"
)

const (
	// Fallback specific yield when no roof-specific data is available:
	// average peak sun hours for the serviced region, derated by a typical
	// performance ratio.
	defaultPeakSunHours     = 4.4
	defaultPerformanceRatio = 0.80
)

// monthlyShare distributes annual production across calendar months for a
// southern-hemisphere installation: long summers in Dec-Feb, winter trough
// in Jun-Jul. Entries sum to 1.
var monthlyShare = [12]float64{
	0.105, 0.095, 0.095, 0.080, 0.065, 0.055,
	0.060, 0.070, 0.080, 0.090, 0.100, 0.105,
}

// EstimateProduction forecasts annual and monthly generation for a given
// panel count. Roof-specific per-panel yield is used whenever the external
// source supplied one; the peak-sun-hour default applies only when it is
// absent. Production scales linearly with panel count for a fixed layout.
func EstimateProduction(panelCount int, panelWattage float64, roof domain.RoofData, losses domain.SystemLosses) (domain.ProductionEstimate, error) {
	if panelCount <= 0 {
		return domain.ProductionEstimate{}, domain.NewInvalidInput("panel_count", "must be positive")
	}
	if panelWattage <= 0 {
		return domain.ProductionEstimate{}, domain.NewInvalidInput("panel_wattage", "must be positive")
	}

	perPanel := roof.PerPanelYearlyKWH
	usedRoof := perPanel > 0
	if !usedRoof {
		perPanel = (panelWattage / 1000) * defaultPeakSunHours * 365 * defaultPerformanceRatio
	}

	derate := productionDerate(roof, losses, usedRoof)
	annual := float64(panelCount) * perPanel * derate

	var monthly [12]float64
	for m := 0; m < 12; m++ {
		monthly[m] = annual * monthlyShare[m]
	}

	return domain.ProductionEstimate{
		AnnualKWH:         annual,
		MonthlyKWH:        monthly,
		PerPanelYearlyKWH: perPanel * derate,
		UsedRoofYield:     usedRoof,
	}, nil
}

// productionDerate combines loss factors. Roof-sourced yields already fold
// in shading, so the roof shading loss is only applied on the fallback
// path.
func productionDerate(roof domain.RoofData, losses domain.SystemLosses, usedRoofYield bool) float64 {
	derate := 1.0
	if !usedRoofYield {
		derate *= 1 - roof.ShadingLossPct/100
	}
	derate *= 1 - losses.ShadingPct/100
	derate *= 1 - losses.SoilingPct/100
	if losses.InverterEfficiencyPct > 0 {
		derate *= losses.InverterEfficiencyPct / 100
	}
	if derate < 0 {
		derate = 0
	}
	return derate
}
