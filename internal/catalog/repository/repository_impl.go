package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sunquotelabs/sunquote/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertProduct(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (id, type, manufacturer, model, tier, wattage_or_capacity, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Type, p.Manufacturer, p.Model, p.Tier, p.WattageOrCapacity, p.Active, p.CreatedAt, p.UpdatedAt,
	).Error
}

func (r *repo) FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM products WHERE id = ?`, id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) ListProducts(ctx context.Context, db *gorm.DB, filter domain.ProductFilter) ([]domain.Product, error) {
	stmt := db.WithContext(ctx).Model(&domain.Product{})
	if filter.Type != nil {
		stmt = stmt.Where("type = ?", *filter.Type)
	}
	if filter.Tier != nil {
		stmt = stmt.Where("tier = ?", *filter.Tier)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}

	var items []domain.Product
	if err := stmt.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateProduct(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	if p == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE products
		 SET manufacturer = ?, model = ?, tier = ?, wattage_or_capacity = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		p.Manufacturer, p.Model, p.Tier, p.WattageOrCapacity, p.Active, p.UpdatedAt, p.ID,
	).Error
}

func (r *repo) InsertOffer(ctx context.Context, db *gorm.DB, o *domain.SupplierOffer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO supplier_offers (id, product_id, supplier_id, supplier_name, unit_cost, markup_percent, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.ProductID, o.SupplierID, o.SupplierName, o.UnitCost, o.MarkupPercent, o.Active, o.CreatedAt, o.UpdatedAt,
	).Error
}

func (r *repo) ListOffers(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.SupplierOffer, error) {
	stmt := db.WithContext(ctx).Model(&domain.SupplierOffer{})
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	var items []domain.SupplierOffer
	if err := stmt.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateOffer(ctx context.Context, db *gorm.DB, o *domain.SupplierOffer) error {
	if o == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE supplier_offers
		 SET unit_cost = ?, markup_percent = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		o.UnitCost, o.MarkupPercent, o.Active, o.UpdatedAt, o.ID,
	).Error
}

func (r *repo) InsertInstallationItem(ctx context.Context, db *gorm.DB, item *domain.InstallationCostItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO installation_cost_items (id, code, category, calculation_type, base_rate, provider_type, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Code, item.Category, item.CalculationType, item.BaseRate, item.ProviderType, item.Active, item.CreatedAt, item.UpdatedAt,
	).Error
}

func (r *repo) ListInstallationItems(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.InstallationCostItem, error) {
	stmt := db.WithContext(ctx).Model(&domain.InstallationCostItem{})
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	var items []domain.InstallationCostItem
	if err := stmt.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertRateCard(ctx context.Context, db *gorm.DB, card *domain.SubcontractorRateCard) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subcontractor_rate_cards (id, subcontractor_id, name, per_watt_rate, battery_base_rate, battery_per_kwh_rate, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID, card.SubcontractorID, card.Name, card.PerWattRate, card.BatteryBaseRate, card.BatteryPerKwhRate, card.Active, card.CreatedAt, card.UpdatedAt,
	).Error
}

func (r *repo) ListRateCards(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.SubcontractorRateCard, error) {
	stmt := db.WithContext(ctx).Model(&domain.SubcontractorRateCard{})
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	var items []domain.SubcontractorRateCard
	if err := stmt.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertZoneRating(ctx context.Context, db *gorm.DB, z *domain.ZoneRating) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO zone_ratings (id, postcode_from, postcode_to, zone, multiplier)
		 VALUES (?, ?, ?, ?, ?)`,
		z.ID, z.PostcodeFrom, z.PostcodeTo, z.Zone, z.Multiplier,
	).Error
}

func (r *repo) ListZoneRatings(ctx context.Context, db *gorm.DB) ([]domain.ZoneRating, error) {
	var items []domain.ZoneRating
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM zone_ratings ORDER BY postcode_from ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertPackageTemplate(ctx context.Context, db *gorm.DB, t *domain.PackageTemplate) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO package_templates (id, code, name, tier, solar_sizing_strategy, solar_sizing_value, battery_sizing_strategy, battery_sizing_value, price_multiplier, discount_percent, include_monitoring, include_warranty, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Code, t.Name, t.Tier, t.SolarSizingStrategy, t.SolarSizingValue, t.BatterySizingStrategy, t.BatterySizingValue,
		t.PriceMultiplier, t.DiscountPercent, t.IncludeMonitoring, t.IncludeWarranty, t.Active, t.CreatedAt, t.UpdatedAt,
	).Error
}

func (r *repo) FindPackageTemplateByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PackageTemplate, error) {
	var t domain.PackageTemplate
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM package_templates WHERE id = ?`, id,
	).Scan(&t).Error
	if err != nil {
		return nil, err
	}
	if t.ID == 0 {
		return nil, nil
	}
	return &t, nil
}

func (r *repo) ListPackageTemplates(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.PackageTemplate, error) {
	stmt := db.WithContext(ctx).Model(&domain.PackageTemplate{})
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	var items []domain.PackageTemplate
	if err := stmt.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
