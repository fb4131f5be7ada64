package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sunquotelabs/sunquote/internal/quote/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, q *domain.Quote) error {
	return db.WithContext(ctx).Create(q).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Quote, error) {
	var q domain.Quote
	err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&q).Error
	if err != nil {
		return nil, err
	}
	if q.ID == 0 {
		return nil, nil
	}
	return &q, nil
}

func (r *repo) FindBySessionID(ctx context.Context, db *gorm.DB, sessionID string) (*domain.Quote, error) {
	var q domain.Quote
	err := db.WithContext(ctx).Where("session_id = ?", sessionID).Limit(1).Find(&q).Error
	if err != nil {
		return nil, err
	}
	if q.ID == 0 {
		return nil, nil
	}
	return &q, nil
}

func (r *repo) UpdateInputs(ctx context.Context, db *gorm.DB, q *domain.Quote) error {
	if q == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE quotes
		 SET address = ?, postcode = ?, state = ?, property_type = ?,
		     household_profile = ?, roof_data = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		q.Address, q.Postcode, q.State, q.PropertyType,
		q.HouseholdProfile, q.RoofData, q.UpdatedAt,
		q.ID, domain.StatusDraft,
	).Error
}

func (r *repo) FreezeSelection(ctx context.Context, db *gorm.DB, q *domain.Quote) (bool, error) {
	if q == nil {
		return false, gorm.ErrInvalidData
	}
	res := db.WithContext(ctx).Exec(
		`UPDATE quotes
		 SET status = ?, version = version + 1,
		     template_id = ?, package_code = ?, customization_notes = ?,
		     system_kw = ?, panel_count = ?, panel_wattage = ?,
		     battery_kwh = ?, battery_substituted = ?,
		     panel_cost = ?, inverter_cost = ?, battery_cost = ?,
		     installation_cost = ?, installation_route = ?,
		     total_before_rebates = ?, solar_rebate = ?, battery_rebates = ?,
		     total_rebates = ?, total_after_rebates = ?,
		     annual_savings = ?, year10_savings = ?, year25_savings = ?,
		     payback_years = ?, roi = ?, calculation_audit = ?,
		     household_profile = ?, roof_data = ?,
		     snapshot_taken_at = ?, selected_at = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		domain.StatusPackageSelected,
		q.TemplateID, q.PackageCode, q.CustomizationNotes,
		q.SystemKW, q.PanelCount, q.PanelWattage,
		q.BatteryKWH, q.BatterySubstituted,
		q.PanelCost, q.InverterCost, q.BatteryCost,
		q.InstallationCost, q.InstallationRoute,
		q.TotalBeforeRebates, q.SolarRebate, q.BatteryRebates,
		q.TotalRebates, q.TotalAfterRebates,
		q.AnnualSavings, q.Year10Savings, q.Year25Savings,
		q.PaybackYears, q.ROI, q.CalculationAudit,
		q.HouseholdProfile, q.RoofData,
		q.SnapshotTakenAt, q.SelectedAt, q.UpdatedAt,
		q.ID, domain.StatusDraft,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to domain.Status) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE quotes SET status = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		to, id, from,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
