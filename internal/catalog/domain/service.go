package domain

import "context"

type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	UpdateProduct(ctx context.Context, req UpdateProductRequest) (*Product, error)
	ArchiveProduct(ctx context.Context, id string) (*Product, error)

	CreateOffer(ctx context.Context, req CreateOfferRequest) (*SupplierOffer, error)
	ListOffers(ctx context.Context, activeOnly bool) ([]SupplierOffer, error)
	UpdateOffer(ctx context.Context, req UpdateOfferRequest) (*SupplierOffer, error)

	CreateInstallationItem(ctx context.Context, req CreateInstallationItemRequest) (*InstallationCostItem, error)
	ListInstallationItems(ctx context.Context, activeOnly bool) ([]InstallationCostItem, error)

	CreateRateCard(ctx context.Context, req CreateRateCardRequest) (*SubcontractorRateCard, error)
	ListRateCards(ctx context.Context, activeOnly bool) ([]SubcontractorRateCard, error)

	CreateZoneRating(ctx context.Context, req CreateZoneRatingRequest) (*ZoneRating, error)
	ListZoneRatings(ctx context.Context) ([]ZoneRating, error)

	CreatePackageTemplate(ctx context.Context, req CreatePackageTemplateRequest) (*PackageTemplate, error)
	ListPackageTemplates(ctx context.Context, activeOnly bool) ([]PackageTemplate, error)

	// Snapshot loads a read-only copy of all active catalog rows in one
	// pass. Every pricing run works from exactly one snapshot.
	Snapshot(ctx context.Context) (Snapshot, error)
}

type CreateProductRequest struct {
	Type              ProductType `json:"type"`
	Manufacturer      string      `json:"manufacturer"`
	Model             string      `json:"model"`
	Tier              ProductTier `json:"tier"`
	WattageOrCapacity float64     `json:"wattage_or_capacity"`
	Active            *bool       `json:"active"`
}

type UpdateProductRequest struct {
	ID                string       `json:"id"`
	Manufacturer      *string      `json:"manufacturer,omitempty"`
	Model             *string      `json:"model,omitempty"`
	Tier              *ProductTier `json:"tier,omitempty"`
	WattageOrCapacity *float64     `json:"wattage_or_capacity,omitempty"`
	Active            *bool        `json:"active,omitempty"`
}

type CreateOfferRequest struct {
	ProductID     string  `json:"product_id"`
	SupplierID    string  `json:"supplier_id"`
	SupplierName  string  `json:"supplier_name"`
	UnitCost      float64 `json:"unit_cost"`
	MarkupPercent float64 `json:"markup_percent"`
	Active        *bool   `json:"active"`
}

type UpdateOfferRequest struct {
	ID            string   `json:"id"`
	UnitCost      *float64 `json:"unit_cost,omitempty"`
	MarkupPercent *float64 `json:"markup_percent,omitempty"`
	Active        *bool    `json:"active,omitempty"`
}

type CreateInstallationItemRequest struct {
	Code            string          `json:"code"`
	Category        string          `json:"category"`
	CalculationType CalculationType `json:"calculation_type"`
	BaseRate        float64         `json:"base_rate"`
	ProviderType    ProviderType    `json:"provider_type"`
}

type CreateRateCardRequest struct {
	SubcontractorID   string  `json:"subcontractor_id"`
	Name              string  `json:"name"`
	PerWattRate       float64 `json:"per_watt_rate"`
	BatteryBaseRate   float64 `json:"battery_base_rate"`
	BatteryPerKwhRate float64 `json:"battery_per_kwh_rate"`
}

type CreateZoneRatingRequest struct {
	PostcodeFrom int     `json:"postcode_from"`
	PostcodeTo   int     `json:"postcode_to"`
	Zone         int     `json:"zone"`
	Multiplier   float64 `json:"multiplier"`
}

type CreatePackageTemplateRequest struct {
	Name                  string                `json:"name"`
	Tier                  ProductTier           `json:"tier"`
	SolarSizingStrategy   SolarSizingStrategy   `json:"solar_sizing_strategy"`
	SolarSizingValue      float64               `json:"solar_sizing_value"`
	BatterySizingStrategy BatterySizingStrategy `json:"battery_sizing_strategy"`
	BatterySizingValue    float64               `json:"battery_sizing_value"`
	PriceMultiplier       float64               `json:"price_multiplier"`
	DiscountPercent       float64               `json:"discount_percent"`
	IncludeMonitoring     bool                  `json:"include_monitoring"`
	IncludeWarranty       bool                  `json:"include_warranty"`
}
