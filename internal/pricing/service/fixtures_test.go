package service

import (
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	settingsdomain "github.com/sunquotelabs/sunquote/internal/settings/domain"
)

// testSnapshot builds a catalog covering all mid-tier hardware the engine
// needs, priced so totals are easy to reason about by hand.
func testSnapshot() catalogdomain.Snapshot {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	products := []catalogdomain.Product{
		{ID: 1, Type: catalogdomain.ProductTypePanel, Manufacturer: "Trina", Model: "Vertex S+ 440", Tier: catalogdomain.TierMid, WattageOrCapacity: 440, Active: true},
		{ID: 2, Type: catalogdomain.ProductTypeInverter, Manufacturer: "Sungrow", Model: "SG5.0RS", Tier: catalogdomain.TierMid, WattageOrCapacity: 5000, Active: true},
		{ID: 3, Type: catalogdomain.ProductTypeInverter, Manufacturer: "Sungrow", Model: "SG8.0RS", Tier: catalogdomain.TierMid, WattageOrCapacity: 8000, Active: true},
		{ID: 4, Type: catalogdomain.ProductTypeBattery, Manufacturer: "Sungrow", Model: "SBR096", Tier: catalogdomain.TierMid, WattageOrCapacity: 9.6, Active: true},
		{ID: 5, Type: catalogdomain.ProductTypeBattery, Manufacturer: "Tesla", Model: "Powerwall 2", Tier: catalogdomain.TierMid, WattageOrCapacity: 13.5, Active: true},
	}

	offers := []catalogdomain.SupplierOffer{
		{ID: 11, ProductID: 1, SupplierID: 1, SupplierName: "One Stop", UnitCost: 150, MarkupPercent: 25, Active: true},
		{ID: 12, ProductID: 2, SupplierID: 1, SupplierName: "One Stop", UnitCost: 980, MarkupPercent: 20, Active: true},
		{ID: 13, ProductID: 3, SupplierID: 1, SupplierName: "One Stop", UnitCost: 1420, MarkupPercent: 20, Active: true},
		{ID: 14, ProductID: 4, SupplierID: 1, SupplierName: "One Stop", UnitCost: 5200, MarkupPercent: 18, Active: true},
		{ID: 15, ProductID: 5, SupplierID: 1, SupplierName: "One Stop", UnitCost: 9800, MarkupPercent: 18, Active: true},
	}

	items := []catalogdomain.InstallationCostItem{
		{ID: 21, Code: "base_install", Category: "labor", CalculationType: catalogdomain.CalcFixed, BaseRate: 1200, ProviderType: catalogdomain.ProviderInternal, Active: true},
		{ID: 22, Code: "panel_mounting", Category: "labor", CalculationType: catalogdomain.CalcPerPanel, BaseRate: 55, ProviderType: catalogdomain.ProviderInternal, Active: true},
		{ID: 23, Code: "dc_wiring", Category: "labor", CalculationType: catalogdomain.CalcPerWatt, BaseRate: 0.08, ProviderType: catalogdomain.ProviderInternal, Active: true},
		{ID: 24, Code: "battery_install", Category: "labor", CalculationType: catalogdomain.CalcPerKWH, BaseRate: 90, ProviderType: catalogdomain.ProviderInternal, Active: true},
		{ID: 25, Code: "commissioning", Category: "compliance", CalculationType: catalogdomain.CalcPerUnit, BaseRate: 180, ProviderType: catalogdomain.ProviderInternal, Active: true},
	}

	cards := []catalogdomain.SubcontractorRateCard{
		{ID: 31, SubcontractorID: 1, Name: "Westside Solar Crews", PerWattRate: 0.42, BatteryBaseRate: 600, BatteryPerKwhRate: 70, Active: true},
	}

	zones := []catalogdomain.ZoneRating{
		{ID: 41, PostcodeFrom: 6000, PostcodeTo: 6799, Zone: 3, Multiplier: 1.382},
	}

	return catalogdomain.Snapshot{
		TakenAt:           now,
		Products:          products,
		Offers:            offers,
		InstallationItems: items,
		RateCards:         cards,
		ZoneRatings:       zones,
	}
}

func testTemplate(solar catalogdomain.SolarSizingStrategy, solarValue float64, battery catalogdomain.BatterySizingStrategy, batteryValue float64) catalogdomain.PackageTemplate {
	return catalogdomain.PackageTemplate{
		ID:                    snowflake.ID(51),
		Code:                  "comfort",
		Name:                  "Comfort",
		Tier:                  catalogdomain.TierMid,
		SolarSizingStrategy:   solar,
		SolarSizingValue:      solarValue,
		BatterySizingStrategy: battery,
		BatterySizingValue:    batteryValue,
		PriceMultiplier:       1.0,
		Active:                true,
	}
}

func testSettings() settingsdomain.Settings {
	return settingsdomain.Settings{
		ID:                      1,
		CertificatePrice:        39.40,
		DeemingEndYear:          2030,
		TariffPerKWH:            0.31,
		FeedInPerKWH:            0.05,
		EscalationRate:          0.03,
		DiscountRate:            0.05,
		DegradationRate:         0.005,
		InverterReplacementYear: 12,
		InverterReplacementCost: 2200,
		ExportLimitKW:           5.0,
		ServicedState:           "WA",
	}
}
