// Package seed loads a representative development catalog: hardware,
// supplier offers, installation rates, WA rebate zones and the three
// customer-facing package templates. It is idempotent; a catalog that
// already has products is left untouched.
package seed

import (
	"context"
	"fmt"

	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	"go.uber.org/zap"
)

func boolPtr(b bool) *bool { return &b }

// Run populates the catalog through the admin service so seeded rows pass
// the same validation as operator input.
func Run(ctx context.Context, svc catalogdomain.Service, log *zap.Logger) error {
	existing, err := svc.ListProducts(ctx, catalogdomain.ProductFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("catalog already seeded", zap.Int("products", len(existing)))
		return nil
	}

	products := []catalogdomain.CreateProductRequest{
		{Type: catalogdomain.ProductTypePanel, Manufacturer: "Jinko", Model: "Tiger Neo 440", Tier: catalogdomain.TierBudget, WattageOrCapacity: 440},
		{Type: catalogdomain.ProductTypePanel, Manufacturer: "Trina", Model: "Vertex S+ 440", Tier: catalogdomain.TierMid, WattageOrCapacity: 440},
		{Type: catalogdomain.ProductTypePanel, Manufacturer: "REC", Model: "Alpha Pure-RX 440", Tier: catalogdomain.TierPremium, WattageOrCapacity: 440},

		{Type: catalogdomain.ProductTypeInverter, Manufacturer: "Growatt", Model: "MIN 5000TL-X", Tier: catalogdomain.TierBudget, WattageOrCapacity: 5000},
		{Type: catalogdomain.ProductTypeInverter, Manufacturer: "Growatt", Model: "MOD 8000TL3-X", Tier: catalogdomain.TierBudget, WattageOrCapacity: 8000},
		{Type: catalogdomain.ProductTypeInverter, Manufacturer: "Sungrow", Model: "SG5.0RS", Tier: catalogdomain.TierMid, WattageOrCapacity: 5000},
		{Type: catalogdomain.ProductTypeInverter, Manufacturer: "Sungrow", Model: "SG8.0RS", Tier: catalogdomain.TierMid, WattageOrCapacity: 8000},
		{Type: catalogdomain.ProductTypeInverter, Manufacturer: "Fronius", Model: "Primo GEN24 6.0", Tier: catalogdomain.TierPremium, WattageOrCapacity: 6000},
		{Type: catalogdomain.ProductTypeInverter, Manufacturer: "Fronius", Model: "Symo GEN24 10.0", Tier: catalogdomain.TierPremium, WattageOrCapacity: 10000},

		{Type: catalogdomain.ProductTypeBattery, Manufacturer: "Sungrow", Model: "SBR096", Tier: catalogdomain.TierMid, WattageOrCapacity: 9.6},
		{Type: catalogdomain.ProductTypeBattery, Manufacturer: "Tesla", Model: "Powerwall 2", Tier: catalogdomain.TierPremium, WattageOrCapacity: 13.5},
		{Type: catalogdomain.ProductTypeBattery, Manufacturer: "Sungrow", Model: "SBR128", Tier: catalogdomain.TierPremium, WattageOrCapacity: 12.8},
	}

	// Unit costs per item; panels are per panel, batteries per unit.
	costs := []struct {
		unitCost float64
		markup   float64
	}{
		{115, 25}, {150, 25}, {210, 25},
		{780, 20}, {1150, 20}, {980, 20}, {1420, 20}, {1900, 20}, {2600, 20},
		{5200, 18}, {9800, 18}, {7400, 18},
	}

	for i, req := range products {
		p, err := svc.CreateProduct(ctx, req)
		if err != nil {
			return fmt.Errorf("seed product %s %s: %w", req.Manufacturer, req.Model, err)
		}
		_, err = svc.CreateOffer(ctx, catalogdomain.CreateOfferRequest{
			ProductID:     p.ID.String(),
			SupplierID:    "1",
			SupplierName:  "One Stop Warehouse",
			UnitCost:      costs[i].unitCost,
			MarkupPercent: costs[i].markup,
			Active:        boolPtr(true),
		})
		if err != nil {
			return fmt.Errorf("seed offer for %s: %w", p.Model, err)
		}
	}

	installItems := []catalogdomain.CreateInstallationItemRequest{
		{Code: "base_install", Category: "labor", CalculationType: catalogdomain.CalcFixed, BaseRate: 1200, ProviderType: catalogdomain.ProviderInternal},
		{Code: "panel_mounting", Category: "labor", CalculationType: catalogdomain.CalcPerPanel, BaseRate: 55, ProviderType: catalogdomain.ProviderInternal},
		{Code: "dc_wiring", Category: "labor", CalculationType: catalogdomain.CalcPerWatt, BaseRate: 0.08, ProviderType: catalogdomain.ProviderInternal},
		{Code: "battery_install", Category: "labor", CalculationType: catalogdomain.CalcPerKWH, BaseRate: 90, ProviderType: catalogdomain.ProviderInternal},
		{Code: "commissioning", Category: "compliance", CalculationType: catalogdomain.CalcPerUnit, BaseRate: 180, ProviderType: catalogdomain.ProviderInternal},
	}
	for _, item := range installItems {
		if _, err := svc.CreateInstallationItem(ctx, item); err != nil {
			return fmt.Errorf("seed installation item %s: %w", item.Code, err)
		}
	}

	rateCards := []catalogdomain.CreateRateCardRequest{
		{SubcontractorID: "1", Name: "Westside Solar Crews", PerWattRate: 0.42, BatteryBaseRate: 600, BatteryPerKwhRate: 70},
		{SubcontractorID: "2", Name: "Coastal Install Co", PerWattRate: 0.46, BatteryBaseRate: 450, BatteryPerKwhRate: 65},
	}
	for _, card := range rateCards {
		if _, err := svc.CreateRateCard(ctx, card); err != nil {
			return fmt.Errorf("seed rate card %s: %w", card.Name, err)
		}
	}

	// STC zone ratings for the serviced region. Perth metro and the
	// south-west sit in zone 3.
	zones := []catalogdomain.CreateZoneRatingRequest{
		{PostcodeFrom: 6000, PostcodeTo: 6799, Zone: 3, Multiplier: 1.382},
		{PostcodeFrom: 6800, PostcodeTo: 6999, Zone: 2, Multiplier: 1.536},
	}
	for _, z := range zones {
		if _, err := svc.CreateZoneRating(ctx, z); err != nil {
			return fmt.Errorf("seed zone %d-%d: %w", z.PostcodeFrom, z.PostcodeTo, err)
		}
	}

	templates := []catalogdomain.CreatePackageTemplateRequest{
		{
			Name: "Essentials", Tier: catalogdomain.TierBudget,
			SolarSizingStrategy: catalogdomain.SolarSizingCoveragePercent, SolarSizingValue: 80,
			BatterySizingStrategy: catalogdomain.BatterySizingNone,
			PriceMultiplier:       1.0,
		},
		{
			Name: "Comfort", Tier: catalogdomain.TierMid,
			SolarSizingStrategy: catalogdomain.SolarSizingCoveragePercent, SolarSizingValue: 100,
			BatterySizingStrategy: catalogdomain.BatterySizingCoverageHours, BatterySizingValue: 4,
			PriceMultiplier: 1.05, IncludeMonitoring: true,
		},
		{
			Name: "Premium", Tier: catalogdomain.TierPremium,
			SolarSizingStrategy: catalogdomain.SolarSizingFixedKW, SolarSizingValue: 10,
			BatterySizingStrategy: catalogdomain.BatterySizingFixedKWH, BatterySizingValue: 13.5,
			PriceMultiplier: 1.1, DiscountPercent: 5,
			IncludeMonitoring: true, IncludeWarranty: true,
		},
	}
	for _, tpl := range templates {
		if _, err := svc.CreatePackageTemplate(ctx, tpl); err != nil {
			return fmt.Errorf("seed template %s: %w", tpl.Name, err)
		}
	}

	log.Info("catalog seeded",
		zap.Int("products", len(products)),
		zap.Int("templates", len(templates)))
	return nil
}
