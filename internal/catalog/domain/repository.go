package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertProduct(ctx context.Context, db *gorm.DB, p *Product) error
	FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	ListProducts(ctx context.Context, db *gorm.DB, filter ProductFilter) ([]Product, error)
	UpdateProduct(ctx context.Context, db *gorm.DB, p *Product) error

	InsertOffer(ctx context.Context, db *gorm.DB, o *SupplierOffer) error
	ListOffers(ctx context.Context, db *gorm.DB, activeOnly bool) ([]SupplierOffer, error)
	UpdateOffer(ctx context.Context, db *gorm.DB, o *SupplierOffer) error

	InsertInstallationItem(ctx context.Context, db *gorm.DB, item *InstallationCostItem) error
	ListInstallationItems(ctx context.Context, db *gorm.DB, activeOnly bool) ([]InstallationCostItem, error)

	InsertRateCard(ctx context.Context, db *gorm.DB, card *SubcontractorRateCard) error
	ListRateCards(ctx context.Context, db *gorm.DB, activeOnly bool) ([]SubcontractorRateCard, error)

	InsertZoneRating(ctx context.Context, db *gorm.DB, z *ZoneRating) error
	ListZoneRatings(ctx context.Context, db *gorm.DB) ([]ZoneRating, error)

	InsertPackageTemplate(ctx context.Context, db *gorm.DB, t *PackageTemplate) error
	FindPackageTemplateByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PackageTemplate, error)
	ListPackageTemplates(ctx context.Context, db *gorm.DB, activeOnly bool) ([]PackageTemplate, error)
}

type ProductFilter struct {
	Type   *ProductType `form:"type"`
	Tier   *ProductTier `form:"tier"`
	Active *bool        `form:"active"`
}
