package service

import (
	"math"
	"sort"

	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	"github.com/sunquotelabs/sunquote/internal/pricing/domain"
)

// batteryToleranceRatio bounds how far above the requested capacity the
// nearest-at-or-above substitution may reach. Beyond this the engine fails
// with NoSuitableProductError rather than quoting a much larger unit.
const batteryToleranceRatio = 0.5

// SizeSystem resolves a package template's sizing policy into a concrete
// panel count and battery capacity. Panel count always rounds up so the
// coverage floor is met, never down.
func SizeSystem(
	tpl catalogdomain.PackageTemplate,
	consumption domain.ConsumptionEstimate,
	production domain.ProductionEstimate,
	panelWattage float64,
	roof domain.RoofData,
	snap catalogdomain.Snapshot,
) (domain.Sizing, error) {
	if panelWattage <= 0 {
		return domain.Sizing{}, domain.NewInvalidInput("panel_wattage", "must be positive")
	}
	if production.PerPanelYearlyKWH <= 0 {
		return domain.Sizing{}, domain.NewInvalidInput("per_panel_yearly_kwh", "must be positive")
	}

	var panelCount int
	switch tpl.SolarSizingStrategy {
	case catalogdomain.SolarSizingCoveragePercent:
		requiredAnnual := tpl.SolarSizingValue / 100 * consumption.AnnualKWH
		panelCount = int(math.Ceil(requiredAnnual / production.PerPanelYearlyKWH))
	case catalogdomain.SolarSizingFixedKW:
		panelCount = int(math.Ceil(tpl.SolarSizingValue * 1000 / panelWattage))
	default:
		return domain.Sizing{}, domain.NewInvalidInput("solar_sizing_strategy", "unknown strategy")
	}
	if panelCount < 1 {
		panelCount = 1
	}

	coverageLimited := false
	if roof.MaxPanelCount > 0 && panelCount > roof.MaxPanelCount {
		panelCount = roof.MaxPanelCount
		coverageLimited = true
	}

	sizing := domain.Sizing{
		SystemKW:        float64(panelCount) * panelWattage / 1000,
		PanelCount:      panelCount,
		PanelWattage:    panelWattage,
		CoverageLimited: coverageLimited,
	}

	requested, err := requestedBatteryKWH(tpl, consumption)
	if err != nil {
		return domain.Sizing{}, err
	}
	if requested > 0 {
		resolved, substituted, err := resolveBatteryCapacity(requested, tpl.Tier, snap)
		if err != nil {
			return domain.Sizing{}, err
		}
		sizing.RequestedBatteryKWH = requested
		sizing.BatteryKWH = resolved
		sizing.BatterySubstituted = substituted
	}

	return sizing, nil
}

func requestedBatteryKWH(tpl catalogdomain.PackageTemplate, consumption domain.ConsumptionEstimate) (float64, error) {
	switch tpl.BatterySizingStrategy {
	case catalogdomain.BatterySizingNone:
		return 0, nil
	case catalogdomain.BatterySizingCoverageHours:
		return tpl.BatterySizingValue * consumption.EveningLoadKW(), nil
	case catalogdomain.BatterySizingFixedKWH:
		return tpl.BatterySizingValue, nil
	default:
		return 0, domain.NewInvalidInput("battery_sizing_strategy", "unknown strategy")
	}
}

// resolveBatteryCapacity applies the single substitution policy:
// nearest available capacity at or above the request, within the tolerance
// band. It never silently picks a smaller unit.
func resolveBatteryCapacity(requestedKWH float64, tier catalogdomain.ProductTier, snap catalogdomain.Snapshot) (float64, bool, error) {
	var capacities []float64
	for _, p := range snap.ProductsOf(catalogdomain.ProductTypeBattery) {
		if p.Tier == tier {
			capacities = append(capacities, p.WattageOrCapacity)
		}
	}
	if len(capacities) == 0 {
		return 0, false, &domain.NoSuitableProductError{
			ProductType: "battery",
			Requested:   requestedKWH,
			Unit:        "kWh",
		}
	}
	sort.Float64s(capacities)

	for _, c := range capacities {
		if c >= requestedKWH {
			if c > requestedKWH*(1+batteryToleranceRatio) {
				break
			}
			return c, c != requestedKWH, nil
		}
	}

	return 0, false, &domain.NoSuitableProductError{
		ProductType: "battery",
		Requested:   requestedKWH,
		Unit:        "kWh",
		Nearest:     nearestCapacities(capacities, requestedKWH),
	}
}

func nearestCapacities(sorted []float64, target float64) []float64 {
	if len(sorted) <= 2 {
		return sorted
	}
	best := make([]float64, len(sorted))
	copy(best, sorted)
	sort.Slice(best, func(i, j int) bool {
		return math.Abs(best[i]-target) < math.Abs(best[j]-target)
	})
	out := best[:2]
	sort.Float64s(out)
	return out
}
