package service

import (
	"math"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	"github.com/sunquotelabs/sunquote/internal/pricing/domain"
)

// Inverters may be undersized relative to the DC array up to the usual
// 133% oversize allowance.
const maxDCACRatio = 1.33

// SelectPanelProduct picks the panel hardware for a tier: the product whose
// cheapest active offer has the lowest retail price per watt, ties broken
// by lowest product ID. The chosen wattage drives sizing.
func SelectPanelProduct(snap catalogdomain.Snapshot, tier catalogdomain.ProductTier) (catalogdomain.Product, catalogdomain.SupplierOffer, error) {
	type candidate struct {
		product catalogdomain.Product
		offer   catalogdomain.SupplierOffer
	}
	var candidates []candidate
	for _, p := range snap.ProductsOf(catalogdomain.ProductTypePanel) {
		if p.Tier != tier {
			continue
		}
		offer, ok := cheapestOffer(snap, p.ID)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{product: p, offer: offer})
	}

	chosen, ok := catalogdomain.SelectCheapestActive(candidates,
		func(c candidate) int64 { return int64(c.product.ID) },
		func(c candidate) float64 { return c.offer.RetailPrice() / c.product.WattageOrCapacity },
	)
	if !ok {
		return catalogdomain.Product{}, catalogdomain.SupplierOffer{}, &domain.NoSuitableProductError{
			ProductType: "panel",
			Unit:        "W",
		}
	}
	return chosen.product, chosen.offer, nil
}

// SelectInverter picks the smallest adequately rated inverter for the
// array, then the cheapest offer for it. Adequate means rated at or above
// the array size divided by the oversize allowance.
func SelectInverter(snap catalogdomain.Snapshot, tier catalogdomain.ProductTier, systemKW float64) (catalogdomain.Product, catalogdomain.SupplierOffer, error) {
	minRatingW := systemKW * 1000 / maxDCACRatio

	var adequate []catalogdomain.Product
	var allRatings []float64
	for _, p := range snap.ProductsOf(catalogdomain.ProductTypeInverter) {
		if p.Tier != tier {
			continue
		}
		allRatings = append(allRatings, p.WattageOrCapacity)
		if p.WattageOrCapacity >= minRatingW {
			adequate = append(adequate, p)
		}
	}
	if len(adequate) == 0 {
		return catalogdomain.Product{}, catalogdomain.SupplierOffer{}, &domain.NoSuitableProductError{
			ProductType: "inverter",
			Requested:   minRatingW,
			Unit:        "W",
			Nearest:     allRatings,
		}
	}

	chosen, _ := catalogdomain.SelectCheapestActive(adequate,
		func(p catalogdomain.Product) int64 { return int64(p.ID) },
		func(p catalogdomain.Product) float64 { return p.WattageOrCapacity },
	)

	offer, ok := cheapestOffer(snap, chosen.ID)
	if !ok {
		return catalogdomain.Product{}, catalogdomain.SupplierOffer{}, &domain.NoSuitableProductError{
			ProductType: "inverter",
			Requested:   minRatingW,
			Unit:        "W",
		}
	}
	return chosen, offer, nil
}

// SelectBattery locates the battery product at the capacity resolved by
// sizing and its cheapest offer.
func SelectBattery(snap catalogdomain.Snapshot, tier catalogdomain.ProductTier, capacityKWH float64) (catalogdomain.Product, catalogdomain.SupplierOffer, error) {
	var matches []catalogdomain.Product
	for _, p := range snap.ProductsOf(catalogdomain.ProductTypeBattery) {
		if p.Tier == tier && p.WattageOrCapacity == capacityKWH {
			matches = append(matches, p)
		}
	}

	type candidate struct {
		product catalogdomain.Product
		offer   catalogdomain.SupplierOffer
	}
	var candidates []candidate
	for _, p := range matches {
		if offer, ok := cheapestOffer(snap, p.ID); ok {
			candidates = append(candidates, candidate{product: p, offer: offer})
		}
	}
	chosen, ok := catalogdomain.SelectCheapestActive(candidates,
		func(c candidate) int64 { return int64(c.product.ID) },
		func(c candidate) float64 { return c.offer.RetailPrice() },
	)
	if !ok {
		return catalogdomain.Product{}, catalogdomain.SupplierOffer{}, &domain.NoSuitableProductError{
			ProductType: "battery",
			Requested:   capacityKWH,
			Unit:        "kWh",
		}
	}
	return chosen.product, chosen.offer, nil
}

// AssembleCosts resolves hardware offers and the installation route into a
// pre-rebate system cost. Installation is priced under both the internal
// line-item rules and the cheapest active subcontractor card; whichever
// total is lower wins, and both totals plus the winning rate inputs are
// retained for audit.
func AssembleCosts(
	snap catalogdomain.Snapshot,
	tpl catalogdomain.PackageTemplate,
	sizing domain.Sizing,
	panel catalogdomain.Product,
	panelOffer catalogdomain.SupplierOffer,
) (domain.CostBreakdown, error) {
	out := domain.CostBreakdown{
		Panel: hardwareSelection(panel, panelOffer, sizing.PanelCount),
	}
	out.PanelCost = panelOffer.RetailPrice() * float64(sizing.PanelCount)

	inverter, inverterOffer, err := SelectInverter(snap, tpl.Tier, sizing.SystemKW)
	if err != nil {
		return domain.CostBreakdown{}, err
	}
	out.Inverter = hardwareSelection(inverter, inverterOffer, 1)
	out.InverterCost = inverterOffer.RetailPrice()

	if sizing.BatteryKWH > 0 {
		battery, batteryOffer, err := SelectBattery(snap, tpl.Tier, sizing.BatteryKWH)
		if err != nil {
			return domain.CostBreakdown{}, err
		}
		sel := hardwareSelection(battery, batteryOffer, 1)
		out.Battery = &sel
		out.BatteryCost = batteryOffer.RetailPrice()
	}

	resolveInstallation(snap, sizing, &out)

	hardware := out.PanelCost + out.InverterCost + out.BatteryCost
	out.PriceMultiplier = tpl.PriceMultiplier
	out.DiscountPercent = tpl.DiscountPercent
	out.TotalBeforeRebates = (hardware + out.InstallationCost) * tpl.PriceMultiplier * (1 - tpl.DiscountPercent/100)

	return out, nil
}

// resolveInstallation prices both sourcing routes and keeps the cheaper.
func resolveInstallation(snap catalogdomain.Snapshot, sizing domain.Sizing, out *domain.CostBreakdown) {
	systemWatts := sizing.SystemKW * 1000

	var internalTotal float64
	var lines []domain.InstallationLine
	for _, item := range snap.InstallationItems {
		if item.ProviderType != catalogdomain.ProviderInternal {
			continue
		}
		amount := installationLineAmount(item, sizing, systemWatts)
		internalTotal += amount
		lines = append(lines, domain.InstallationLine{
			Code:            item.Code,
			CalculationType: string(item.CalculationType),
			BaseRate:        item.BaseRate,
			Amount:          amount,
		})
	}
	out.InternalLines = lines
	out.InternalTotal = internalTotal

	card, hasCard := catalogdomain.SelectCheapestActive(snap.RateCards,
		func(c catalogdomain.SubcontractorRateCard) int64 { return int64(c.ID) },
		func(c catalogdomain.SubcontractorRateCard) float64 { return c.Total(systemWatts, sizing.BatteryKWH) },
	)
	if hasCard {
		out.SubcontractorTotal = card.Total(systemWatts, sizing.BatteryKWH)
	}

	if hasCard && (len(lines) == 0 || out.SubcontractorTotal < internalTotal) {
		out.InstallationRoute = domain.RouteSubcontractor
		out.InstallationCost = out.SubcontractorTotal
		out.SubcontractorCardID = int64(card.ID)
		out.SubcontractorRates = map[string]float64{
			"per_watt_rate":        card.PerWattRate,
			"battery_base_rate":    card.BatteryBaseRate,
			"battery_per_kwh_rate": card.BatteryPerKwhRate,
		}
		return
	}
	out.InstallationRoute = domain.RouteInternal
	out.InstallationCost = internalTotal
}

func installationLineAmount(item catalogdomain.InstallationCostItem, sizing domain.Sizing, systemWatts float64) float64 {
	switch item.CalculationType {
	case catalogdomain.CalcFixed:
		return item.BaseRate
	case catalogdomain.CalcPerPanel:
		return item.BaseRate * float64(sizing.PanelCount)
	case catalogdomain.CalcPerWatt:
		return item.BaseRate * systemWatts
	case catalogdomain.CalcPerKW:
		return item.BaseRate * sizing.SystemKW
	case catalogdomain.CalcPerKWH:
		return item.BaseRate * sizing.BatteryKWH
	case catalogdomain.CalcPerUnit:
		// One unit per major hardware component: the inverter plus the
		// battery when present.
		units := 1.0
		if sizing.BatteryKWH > 0 {
			units++
		}
		return item.BaseRate * units
	}
	return 0
}

func hardwareSelection(p catalogdomain.Product, o catalogdomain.SupplierOffer, qty int) domain.HardwareSelection {
	return domain.HardwareSelection{
		ProductID:    int64(p.ID),
		Manufacturer: p.Manufacturer,
		Model:        p.Model,
		OfferID:      int64(o.ID),
		SupplierName: o.SupplierName,
		UnitRetail:   roundCents(o.RetailPrice()),
		Quantity:     qty,
	}
}

// cheapestOffer picks the lowest-retail active offer for a product, ties
// broken by lowest offer ID.
func cheapestOffer(snap catalogdomain.Snapshot, productID snowflake.ID) (catalogdomain.SupplierOffer, bool) {
	return catalogdomain.SelectCheapestActive(snap.OffersFor(productID),
		func(o catalogdomain.SupplierOffer) int64 { return int64(o.ID) },
		func(o catalogdomain.SupplierOffer) float64 { return o.RetailPrice() },
	)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
