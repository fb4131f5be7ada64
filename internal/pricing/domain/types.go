// Package domain defines the inputs and outputs of the quote pricing
// pipeline. Everything here is plain data: the engine is a pure function of
// these types plus a catalog snapshot.
package domain

import (
	"time"

	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	settingsdomain "github.com/sunquotelabs/sunquote/internal/settings/domain"
)

type UsageTier string

const (
	UsageTierNone     UsageTier = "none"
	UsageTierLow      UsageTier = "low"
	UsageTierModerate UsageTier = "moderate"
	UsageTierHigh     UsageTier = "high"
)

type PoolType string

const (
	PoolNone     PoolType = "none"
	PoolUnheated PoolType = "unheated"
	PoolHeated   PoolType = "heated"
)

type ChargingWindow string

const (
	ChargeDaytime   ChargingWindow = "daytime"
	ChargeOvernight ChargingWindow = "overnight"
)

// HouseholdProfile is the customer's declared usage characteristics.
// DailyConsumptionOverrideKWH, when set, is a measured figure (bill upload
// or interval data) and always wins over the profile-derived estimate.
type HouseholdProfile struct {
	Occupants                   int             `json:"occupants"`
	ACTier                      UsageTier       `json:"ac_tier"`
	Pool                        PoolType        `json:"pool"`
	HomeOffices                 int             `json:"home_offices"`
	EVCount                     int             `json:"ev_count"`
	EVUsageTier                 UsageTier       `json:"ev_usage_tier"`
	EVChargingWindow            ChargingWindow  `json:"ev_charging_window"`
	ElectricHotWater            bool            `json:"electric_hot_water"`
	ElectricCooking             bool            `json:"electric_cooking"`
	DailyConsumptionOverrideKWH *float64        `json:"daily_consumption_override_kwh,omitempty"`
}

// ConsumptionEstimate is the profiler output. LoadShape holds the fraction
// of daily consumption falling in each hour; the 24 entries sum to 1.
type ConsumptionEstimate struct {
	DailyKWH     float64     `json:"daily_kwh"`
	AnnualKWH    float64     `json:"annual_kwh"`
	LoadShape    [24]float64 `json:"load_shape"`
	FromOverride bool        `json:"from_override"`
}

// EveningLoadKW is the average demand across the evening window (17:00 to
// 22:00), the figure coverage-hours battery sizing works from.
func (c ConsumptionEstimate) EveningLoadKW() float64 {
	var fraction float64
	for h := 17; h < 22; h++ {
		fraction += c.LoadShape[h]
	}
	return c.DailyKWH * fraction / 5
}

// RoofData is the externally sourced roof/irradiance result. When
// PerPanelYearlyKWH is zero the estimator falls back to peak-sun-hour
// defaults.
type RoofData struct {
	MaxPanelCount     int     `json:"max_panel_count"`
	PerPanelYearlyKWH float64 `json:"per_panel_yearly_kwh"`
	TiltDegrees       float64 `json:"tilt_degrees"`
	ShadingLossPct    float64 `json:"shading_loss_pct"`
}

// SystemLosses are the derating factors applied to gross production.
type SystemLosses struct {
	ShadingPct            float64 `json:"shading_pct"`
	SoilingPct            float64 `json:"soiling_pct"`
	InverterEfficiencyPct float64 `json:"inverter_efficiency_pct"`
}

// ProductionEstimate is the estimator output for a concrete panel count.
type ProductionEstimate struct {
	AnnualKWH         float64     `json:"annual_kwh"`
	MonthlyKWH        [12]float64 `json:"monthly_kwh"`
	PerPanelYearlyKWH float64     `json:"per_panel_yearly_kwh"`
	UsedRoofYield     bool        `json:"used_roof_yield"`
}

// Sizing is the resolved hardware size for a package template.
type Sizing struct {
	SystemKW            float64 `json:"system_kw"`
	PanelCount          int     `json:"panel_count"`
	PanelWattage        float64 `json:"panel_wattage"`
	BatteryKWH          float64 `json:"battery_kwh"`
	RequestedBatteryKWH float64 `json:"requested_battery_kwh"`
	BatterySubstituted  bool    `json:"battery_substituted"`
	CoverageLimited     bool    `json:"coverage_limited"`
}

type InstallationRoute string

const (
	RouteInternal      InstallationRoute = "internal"
	RouteSubcontractor InstallationRoute = "subcontractor"
)

// HardwareSelection records which product and supplier offer won for one
// component, for audit.
type HardwareSelection struct {
	ProductID    int64   `json:"product_id"`
	Manufacturer string  `json:"manufacturer"`
	Model        string  `json:"model"`
	OfferID      int64   `json:"offer_id"`
	SupplierName string  `json:"supplier_name"`
	UnitRetail   float64 `json:"unit_retail"`
	Quantity     int     `json:"quantity"`
}

// InstallationLine is one internal labor line evaluated against system
// size.
type InstallationLine struct {
	Code            string  `json:"code"`
	CalculationType string  `json:"calculation_type"`
	BaseRate        float64 `json:"base_rate"`
	Amount          float64 `json:"amount"`
}

// CostBreakdown is the assembler output. The losing installation route's
// total is retained alongside the winning one so the sourcing decision can
// be audited later.
type CostBreakdown struct {
	Panel    HardwareSelection  `json:"panel"`
	Inverter HardwareSelection  `json:"inverter"`
	Battery  *HardwareSelection `json:"battery,omitempty"`

	PanelCost    float64 `json:"panel_cost"`
	InverterCost float64 `json:"inverter_cost"`
	BatteryCost  float64 `json:"battery_cost"`

	InstallationCost    float64            `json:"installation_cost"`
	InstallationRoute   InstallationRoute  `json:"installation_route"`
	InternalLines       []InstallationLine `json:"internal_lines,omitempty"`
	InternalTotal       float64            `json:"internal_total"`
	SubcontractorCardID int64              `json:"subcontractor_card_id,omitempty"`
	SubcontractorRates  map[string]float64 `json:"subcontractor_rates,omitempty"`
	SubcontractorTotal  float64            `json:"subcontractor_total"`

	PriceMultiplier    float64 `json:"price_multiplier"`
	DiscountPercent    float64 `json:"discount_percent"`
	TotalBeforeRebates float64 `json:"total_before_rebates"`
}

// RebateBreakdown is the rebate calculator output.
type RebateBreakdown struct {
	Zone                 int     `json:"zone"`
	ZoneMultiplier       float64 `json:"zone_multiplier"`
	DeemingYears         int     `json:"deeming_years"`
	CertificateCount     int     `json:"certificate_count"`
	CertificatePrice     float64 `json:"certificate_price"`
	SolarRebate          float64 `json:"solar_rebate"`
	FederalBatteryRebate float64 `json:"federal_battery_rebate"`
	StateBatteryRebate   float64 `json:"state_battery_rebate"`
	TotalRebates         float64 `json:"total_rebates"`
	TotalAfterRebates    float64 `json:"total_after_rebates"`
}

// Projection is the multi-year financial outlook.
type Projection struct {
	SelfConsumptionRatio float64 `json:"self_consumption_ratio"`
	AnnualSavings        float64 `json:"annual_savings"`
	Year10Savings        float64 `json:"year10_savings"`
	Year25Savings        float64 `json:"year25_savings"`
	PaybackYears         float64 `json:"payback_years"`
	ROI                  float64 `json:"roi"`
	NPV                  float64 `json:"npv"`
	CurtailedKWHYear1    float64 `json:"curtailed_kwh_year1"`
}

// Input bundles everything one calculation consumes. Snapshot and Settings
// are read-only copies; Now pins time-dependent figures (deeming years).
type Input struct {
	Postcode int
	State    string
	Profile  HouseholdProfile
	Roof     RoofData
	Losses   SystemLosses
	Template catalogdomain.PackageTemplate
	Snapshot catalogdomain.Snapshot
	Settings settingsdomain.Settings
	Now      time.Time
}

// Result is the full pipeline output for one calculation pass.
type Result struct {
	Consumption ConsumptionEstimate `json:"consumption"`
	Production  ProductionEstimate  `json:"production"`
	Sizing      Sizing              `json:"sizing"`
	Costs       CostBreakdown       `json:"costs"`
	Rebates     RebateBreakdown     `json:"rebates"`
	Projection  Projection          `json:"projection"`
}
