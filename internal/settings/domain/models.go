// Package domain holds the system pricing settings consumed by the quote
// engine: tariffs, rebate parameters and projection rates.
package domain

import (
	"context"
	"errors"
	"time"
)

// Settings is a single-row table. The values are copied into every pricing
// run alongside the catalog snapshot, so a frozen quote keeps the settings
// it was priced with.
type Settings struct {
	ID                      int64     `gorm:"primaryKey" json:"-"`
	CertificatePrice        float64   `gorm:"not null" json:"certificate_price"`
	DeemingEndYear          int       `gorm:"not null" json:"deeming_end_year"`
	TariffPerKWH            float64   `gorm:"not null" json:"tariff_per_kwh"`
	FeedInPerKWH            float64   `gorm:"not null" json:"feed_in_per_kwh"`
	EscalationRate          float64   `gorm:"not null" json:"escalation_rate"`
	DiscountRate            float64   `gorm:"not null" json:"discount_rate"`
	DegradationRate         float64   `gorm:"not null" json:"degradation_rate"`
	InverterReplacementYear int       `gorm:"not null" json:"inverter_replacement_year"`
	InverterReplacementCost float64   `gorm:"not null" json:"inverter_replacement_cost"`
	ExportLimitKW           float64   `gorm:"not null" json:"export_limit_kw"`
	ServicedState           string    `gorm:"type:text;not null" json:"serviced_state"`
	UpdatedAt               time.Time `gorm:"not null" json:"updated_at"`
}

func (Settings) TableName() string { return "system_settings" }

// DeemingYears returns the whole years remaining in the certificate scheme
// at the given instant, never below zero. The scheme deems through the end
// of DeemingEndYear.
func (s Settings) DeemingYears(now time.Time) int {
	years := s.DeemingEndYear - now.Year() + 1
	if years < 0 {
		return 0
	}
	return years
}

type UpdateRequest struct {
	CertificatePrice        *float64 `json:"certificate_price,omitempty"`
	DeemingEndYear          *int     `json:"deeming_end_year,omitempty"`
	TariffPerKWH            *float64 `json:"tariff_per_kwh,omitempty"`
	FeedInPerKWH            *float64 `json:"feed_in_per_kwh,omitempty"`
	EscalationRate          *float64 `json:"escalation_rate,omitempty"`
	DiscountRate            *float64 `json:"discount_rate,omitempty"`
	DegradationRate         *float64 `json:"degradation_rate,omitempty"`
	InverterReplacementYear *int     `json:"inverter_replacement_year,omitempty"`
	InverterReplacementCost *float64 `json:"inverter_replacement_cost,omitempty"`
	ExportLimitKW           *float64 `json:"export_limit_kw,omitempty"`
	ServicedState           *string  `json:"serviced_state,omitempty"`
}

type Service interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, req UpdateRequest) (Settings, error)
}

var (
	ErrInvalidValue = errors.New("invalid_setting_value")
	ErrNotSeeded    = errors.New("settings_not_seeded")
)
