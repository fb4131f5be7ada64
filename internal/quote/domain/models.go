// Package domain holds the Quote aggregate: the customer-facing record
// that accumulates inputs while in draft and carries frozen pricing output
// once a package is selected.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusDraft           Status = "draft"
	StatusPackageSelected Status = "package_selected"
	StatusSent            Status = "sent"
	StatusViewed          Status = "viewed"
	StatusAccepted        Status = "accepted"
	StatusPaid            Status = "paid"
	StatusExpired         Status = "expired"
)

// allowedTransitions are the post-selection status moves. None of them
// re-invoke the pricing engine.
var allowedTransitions = map[Status][]Status{
	StatusPackageSelected: {StatusSent, StatusExpired},
	StatusSent:            {StatusViewed, StatusAccepted, StatusExpired},
	StatusViewed:          {StatusAccepted, StatusExpired},
	StatusAccepted:        {StatusPaid, StatusExpired},
}

func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Quote is the aggregate root. Input columns are filled across the funnel;
// the frozen output columns are written exactly once, by package
// selection, and never recomputed afterwards.
type Quote struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Reference string       `gorm:"type:text;not null;uniqueIndex" json:"reference"`
	SessionID string       `gorm:"type:text;not null;uniqueIndex" json:"session_id"`
	Status    Status       `gorm:"type:text;not null;index" json:"status"`
	Version   int          `gorm:"not null;default:1" json:"version"`

	// Inputs.
	Address          string         `gorm:"type:text;not null" json:"address"`
	Postcode         int            `gorm:"not null" json:"postcode"`
	State            string         `gorm:"type:text;not null" json:"state"`
	PropertyType     string         `gorm:"type:text;not null" json:"property_type"`
	HouseholdProfile datatypes.JSON `gorm:"type:jsonb" json:"household_profile,omitempty"`
	RoofData         datatypes.JSON `gorm:"type:jsonb" json:"roof_data,omitempty"`

	// Frozen outputs. Null until a package is selected.
	TemplateID         *snowflake.ID  `json:"template_id,omitempty"`
	PackageCode        string         `gorm:"type:text" json:"package_code,omitempty"`
	CustomizationNotes string         `gorm:"type:text" json:"customization_notes,omitempty"`
	SystemKW           float64        `json:"system_kw"`
	PanelCount         int            `json:"panel_count"`
	PanelWattage       float64        `json:"panel_wattage"`
	BatteryKWH         float64        `json:"battery_kwh"`
	BatterySubstituted bool           `json:"battery_substituted"`
	PanelCost          float64        `json:"panel_cost"`
	InverterCost       float64        `json:"inverter_cost"`
	BatteryCost        float64        `json:"battery_cost"`
	InstallationCost   float64        `json:"installation_cost"`
	InstallationRoute  string         `gorm:"type:text" json:"installation_route,omitempty"`
	TotalBeforeRebates float64        `json:"total_before_rebates"`
	SolarRebate        float64        `json:"solar_rebate"`
	BatteryRebates     float64        `json:"battery_rebates"`
	TotalRebates       float64        `json:"total_rebates"`
	TotalAfterRebates  float64        `json:"total_after_rebates"`
	AnnualSavings      float64        `json:"annual_savings"`
	Year10Savings      float64        `json:"year10_savings"`
	Year25Savings      float64        `json:"year25_savings"`
	PaybackYears       float64        `json:"payback_years"`
	ROI                float64        `json:"roi"`
	CalculationAudit   datatypes.JSON `gorm:"type:jsonb" json:"calculation_audit,omitempty"`

	SnapshotTakenAt *time.Time `json:"snapshot_taken_at,omitempty"`
	SelectedAt      *time.Time `json:"selected_at,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (Quote) TableName() string { return "quotes" }

// Frozen reports whether the pricing fields are immutable.
func (q *Quote) Frozen() bool { return q.Status != StatusDraft }

// Draft is the only view of a quote that can reach the pricing engine.
// Obtain one through AsDraft; a frozen quote never yields a Draft.
type Draft struct {
	Quote *Quote
}

// AsDraft returns the calculable view of a quote, or ErrAlreadyFrozen once
// a package has been selected. Recomputation of a frozen quote is thereby
// unrepresentable at the type level, not just forbidden by convention.
func (q *Quote) AsDraft() (Draft, error) {
	if q.Frozen() {
		return Draft{}, ErrAlreadyFrozen
	}
	return Draft{Quote: q}, nil
}

// Selected is the read-only view of a frozen quote: field accessors only,
// no recomputation entry point.
type Selected struct {
	quote Quote
}

func (q *Quote) AsSelected() (Selected, error) {
	if !q.Frozen() {
		return Selected{}, ErrNotSelected
	}
	return Selected{quote: *q}, nil
}

func (s Selected) Reference() string           { return s.quote.Reference }
func (s Selected) Status() Status              { return s.quote.Status }
func (s Selected) SystemKW() float64           { return s.quote.SystemKW }
func (s Selected) PanelCount() int             { return s.quote.PanelCount }
func (s Selected) BatteryKWH() float64         { return s.quote.BatteryKWH }
func (s Selected) TotalBeforeRebates() float64 { return s.quote.TotalBeforeRebates }
func (s Selected) TotalRebates() float64       { return s.quote.TotalRebates }
func (s Selected) TotalAfterRebates() float64  { return s.quote.TotalAfterRebates }
func (s Selected) AnnualSavings() float64      { return s.quote.AnnualSavings }
func (s Selected) PaybackYears() float64       { return s.quote.PaybackYears }
func (s Selected) ROI() float64                { return s.quote.ROI }
