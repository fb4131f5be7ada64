package migration

import (
	"time"

	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	quotedomain "github.com/sunquotelabs/sunquote/internal/quote/domain"
	settingsdomain "github.com/sunquotelabs/sunquote/internal/settings/domain"
	"gorm.io/gorm"
)

// AutoMigrateSQLite builds the schema from the gorm models and seeds the
// default settings row. sqlite only; postgres deployments use the embedded
// SQL migrations.
func AutoMigrateSQLite(db *gorm.DB) error {
	err := db.AutoMigrate(
		&catalogdomain.Product{},
		&catalogdomain.SupplierOffer{},
		&catalogdomain.InstallationCostItem{},
		&catalogdomain.SubcontractorRateCard{},
		&catalogdomain.ZoneRating{},
		&catalogdomain.PackageTemplate{},
		&settingsdomain.Settings{},
		&quotedomain.Quote{},
	)
	if err != nil {
		return err
	}
	return seedDefaultSettings(db)
}

func seedDefaultSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&settingsdomain.Settings{}).Where("id = 1").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&settingsdomain.Settings{
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
		UpdatedAt:               time.Now().UTC(),
	}).Error
}
