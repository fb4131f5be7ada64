// Package domain holds the hardware catalog, installation rates and rebate
// zone models. Catalog rows are mutated only through admin endpoints; the
// pricing engine consumes them via an immutable Snapshot.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type ProductType string

const (
	ProductTypePanel    ProductType = "panel"
	ProductTypeInverter ProductType = "inverter"
	ProductTypeBattery  ProductType = "battery"
	ProductTypeAddon    ProductType = "addon"
)

type ProductTier string

const (
	TierBudget  ProductTier = "budget"
	TierMid     ProductTier = "mid"
	TierPremium ProductTier = "premium"
)

// Product is an immutable catalog fact: a panel, inverter, battery or
// add-on. WattageOrCapacity is watts for panels/inverters and kWh for
// batteries.
type Product struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	Type              ProductType  `gorm:"type:text;not null;index" json:"type"`
	Manufacturer      string       `gorm:"type:text;not null" json:"manufacturer"`
	Model             string       `gorm:"type:text;not null" json:"model"`
	Tier              ProductTier  `gorm:"type:text;not null;index" json:"tier"`
	WattageOrCapacity float64      `gorm:"not null" json:"wattage_or_capacity"`
	Active            bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt         time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// SupplierOffer is one supplier's price for a product. Several offers may
// exist per product; calculations always pick the cheapest active one.
type SupplierOffer struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	ProductID     snowflake.ID `gorm:"not null;index" json:"product_id"`
	SupplierID    snowflake.ID `gorm:"not null;index" json:"supplier_id"`
	SupplierName  string       `gorm:"type:text;not null" json:"supplier_name"`
	UnitCost      float64      `gorm:"not null" json:"unit_cost"`
	MarkupPercent float64      `gorm:"not null" json:"markup_percent"`
	Active        bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

func (SupplierOffer) TableName() string { return "supplier_offers" }

// RetailPrice is the markup-derived customer price for one unit.
func (o SupplierOffer) RetailPrice() float64 {
	return o.UnitCost * (1 + o.MarkupPercent/100)
}

type CalculationType string

const (
	CalcFixed    CalculationType = "fixed"
	CalcPerPanel CalculationType = "per_panel"
	CalcPerWatt  CalculationType = "per_watt"
	CalcPerKWH   CalculationType = "per_kwh"
	CalcPerKW    CalculationType = "per_kw"
	CalcPerUnit  CalculationType = "per_unit"
)

type ProviderType string

const (
	ProviderInternal      ProviderType = "internal"
	ProviderSubcontractor ProviderType = "subcontractor"
)

// InstallationCostItem is one internal labor line. Its dollar value is
// derived from system size according to CalculationType.
type InstallationCostItem struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	Code            string          `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Category        string          `gorm:"type:text;not null" json:"category"`
	CalculationType CalculationType `gorm:"type:text;not null" json:"calculation_type"`
	BaseRate        float64         `gorm:"not null" json:"base_rate"`
	ProviderType    ProviderType    `gorm:"type:text;not null" json:"provider_type"`
	Active          bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (InstallationCostItem) TableName() string { return "installation_cost_items" }

// SubcontractorRateCard prices a full install through a third-party crew.
type SubcontractorRateCard struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	SubcontractorID   snowflake.ID `gorm:"not null;index" json:"subcontractor_id"`
	Name              string       `gorm:"type:text;not null" json:"name"`
	PerWattRate       float64      `gorm:"not null" json:"per_watt_rate"`
	BatteryBaseRate   float64      `gorm:"not null" json:"battery_base_rate"`
	BatteryPerKwhRate float64      `gorm:"not null" json:"battery_per_kwh_rate"`
	Active            bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt         time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null" json:"updated_at"`
}

func (SubcontractorRateCard) TableName() string { return "subcontractor_rate_cards" }

// Total prices an installation of the given size through this crew.
func (r SubcontractorRateCard) Total(systemWatts, batteryKWH float64) float64 {
	total := r.PerWattRate * systemWatts
	if batteryKWH > 0 {
		total += r.BatteryBaseRate + r.BatteryPerKwhRate*batteryKWH
	}
	return total
}

// ZoneRating maps a postcode range to the government zone multiplier used
// by the certificate rebate.
type ZoneRating struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	PostcodeFrom int          `gorm:"not null;index" json:"postcode_from"`
	PostcodeTo   int          `gorm:"not null" json:"postcode_to"`
	Zone         int          `gorm:"not null" json:"zone"`
	Multiplier   float64      `gorm:"not null" json:"multiplier"`
}

func (ZoneRating) TableName() string { return "zone_ratings" }

func (z ZoneRating) Contains(postcode int) bool {
	return postcode >= z.PostcodeFrom && postcode <= z.PostcodeTo
}

type SolarSizingStrategy string

const (
	SolarSizingCoveragePercent SolarSizingStrategy = "coverage_percent"
	SolarSizingFixedKW         SolarSizingStrategy = "fixed_kw"
)

type BatterySizingStrategy string

const (
	BatterySizingCoverageHours BatterySizingStrategy = "coverage_hours"
	BatterySizingFixedKWH      BatterySizingStrategy = "fixed_kwh"
	BatterySizingNone          BatterySizingStrategy = "none"
)

// PackageTemplate defines how to size and price a system, never the
// resulting numbers.
type PackageTemplate struct {
	ID                    snowflake.ID          `gorm:"primaryKey" json:"id"`
	Code                  string                `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Name                  string                `gorm:"type:text;not null" json:"name"`
	Tier                  ProductTier           `gorm:"type:text;not null" json:"tier"`
	SolarSizingStrategy   SolarSizingStrategy   `gorm:"type:text;not null" json:"solar_sizing_strategy"`
	SolarSizingValue      float64               `gorm:"not null" json:"solar_sizing_value"`
	BatterySizingStrategy BatterySizingStrategy `gorm:"type:text;not null" json:"battery_sizing_strategy"`
	BatterySizingValue    float64               `gorm:"not null" json:"battery_sizing_value"`
	PriceMultiplier       float64               `gorm:"not null;default:1" json:"price_multiplier"`
	DiscountPercent       float64               `gorm:"not null;default:0" json:"discount_percent"`
	IncludeMonitoring     bool                  `gorm:"not null;default:false" json:"include_monitoring"`
	IncludeWarranty       bool                  `gorm:"not null;default:false" json:"include_warranty"`
	Active                bool                  `gorm:"not null;default:true" json:"active"`
	CreatedAt             time.Time             `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time             `gorm:"not null" json:"updated_at"`
}

func (PackageTemplate) TableName() string { return "package_templates" }
