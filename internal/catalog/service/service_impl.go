package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/sunquotelabs/sunquote/internal/catalog/domain"
	"github.com/sunquotelabs/sunquote/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if !validProductType(req.Type) {
		return nil, domain.ErrInvalidType
	}
	if !validTier(req.Tier) {
		return nil, domain.ErrInvalidTier
	}
	if strings.TrimSpace(req.Manufacturer) == "" {
		return nil, domain.ErrInvalidManufacturer
	}
	if req.WattageOrCapacity <= 0 {
		return nil, domain.ErrInvalidCapacity
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := s.clock.Now(ctx)
	p := &domain.Product{
		ID:                s.genID.Generate(),
		Type:              req.Type,
		Manufacturer:      strings.TrimSpace(req.Manufacturer),
		Model:             strings.TrimSpace(req.Model),
		Tier:              req.Tier,
		WattageOrCapacity: req.WattageOrCapacity,
		Active:            active,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.InsertProduct(ctx, s.db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, s.db, filter)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	p, err := s.repo.FindProductByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, req domain.UpdateProductRequest) (*domain.Product, error) {
	productID, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	p, err := s.repo.FindProductByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	if req.Manufacturer != nil {
		m := strings.TrimSpace(*req.Manufacturer)
		if m == "" {
			return nil, domain.ErrInvalidManufacturer
		}
		p.Manufacturer = m
	}
	if req.Model != nil {
		p.Model = strings.TrimSpace(*req.Model)
	}
	if req.Tier != nil {
		if !validTier(*req.Tier) {
			return nil, domain.ErrInvalidTier
		}
		p.Tier = *req.Tier
	}
	if req.WattageOrCapacity != nil {
		if *req.WattageOrCapacity <= 0 {
			return nil, domain.ErrInvalidCapacity
		}
		p.WattageOrCapacity = *req.WattageOrCapacity
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	p.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.UpdateProduct(ctx, s.db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ArchiveProduct(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	p, err := s.repo.FindProductByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	p.Active = false
	p.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.UpdateProduct(ctx, s.db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) CreateOffer(ctx context.Context, req domain.CreateOfferRequest) (*domain.SupplierOffer, error) {
	productID, err := parseID(req.ProductID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	supplierID, err := parseID(req.SupplierID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if req.UnitCost <= 0 || req.MarkupPercent < 0 {
		return nil, domain.ErrInvalidRate
	}

	p, err := s.repo.FindProductByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := s.clock.Now(ctx)
	o := &domain.SupplierOffer{
		ID:            s.genID.Generate(),
		ProductID:     productID,
		SupplierID:    supplierID,
		SupplierName:  strings.TrimSpace(req.SupplierName),
		UnitCost:      req.UnitCost,
		MarkupPercent: req.MarkupPercent,
		Active:        active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.InsertOffer(ctx, s.db, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) ListOffers(ctx context.Context, activeOnly bool) ([]domain.SupplierOffer, error) {
	return s.repo.ListOffers(ctx, s.db, activeOnly)
}

func (s *Service) UpdateOffer(ctx context.Context, req domain.UpdateOfferRequest) (*domain.SupplierOffer, error) {
	offerID, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	offers, err := s.repo.ListOffers(ctx, s.db, false)
	if err != nil {
		return nil, err
	}
	var found *domain.SupplierOffer
	for i := range offers {
		if offers[i].ID == offerID {
			found = &offers[i]
			break
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}

	if req.UnitCost != nil {
		if *req.UnitCost <= 0 {
			return nil, domain.ErrInvalidRate
		}
		found.UnitCost = *req.UnitCost
	}
	if req.MarkupPercent != nil {
		if *req.MarkupPercent < 0 {
			return nil, domain.ErrInvalidRate
		}
		found.MarkupPercent = *req.MarkupPercent
	}
	if req.Active != nil {
		found.Active = *req.Active
	}

	found.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.UpdateOffer(ctx, s.db, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Service) CreateInstallationItem(ctx context.Context, req domain.CreateInstallationItemRequest) (*domain.InstallationCostItem, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, domain.ErrInvalidID
	}
	if !validCalculationType(req.CalculationType) {
		return nil, domain.ErrInvalidRate
	}
	if req.BaseRate < 0 {
		return nil, domain.ErrInvalidRate
	}

	now := s.clock.Now(ctx)
	item := &domain.InstallationCostItem{
		ID:              s.genID.Generate(),
		Code:            strings.TrimSpace(req.Code),
		Category:        strings.TrimSpace(req.Category),
		CalculationType: req.CalculationType,
		BaseRate:        req.BaseRate,
		ProviderType:    req.ProviderType,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.InsertInstallationItem(ctx, s.db, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) ListInstallationItems(ctx context.Context, activeOnly bool) ([]domain.InstallationCostItem, error) {
	return s.repo.ListInstallationItems(ctx, s.db, activeOnly)
}

func (s *Service) CreateRateCard(ctx context.Context, req domain.CreateRateCardRequest) (*domain.SubcontractorRateCard, error) {
	subID, err := parseID(req.SubcontractorID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if req.PerWattRate <= 0 || req.BatteryBaseRate < 0 || req.BatteryPerKwhRate < 0 {
		return nil, domain.ErrInvalidRate
	}

	now := s.clock.Now(ctx)
	card := &domain.SubcontractorRateCard{
		ID:                s.genID.Generate(),
		SubcontractorID:   subID,
		Name:              strings.TrimSpace(req.Name),
		PerWattRate:       req.PerWattRate,
		BatteryBaseRate:   req.BatteryBaseRate,
		BatteryPerKwhRate: req.BatteryPerKwhRate,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.InsertRateCard(ctx, s.db, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *Service) ListRateCards(ctx context.Context, activeOnly bool) ([]domain.SubcontractorRateCard, error) {
	return s.repo.ListRateCards(ctx, s.db, activeOnly)
}

func (s *Service) CreateZoneRating(ctx context.Context, req domain.CreateZoneRatingRequest) (*domain.ZoneRating, error) {
	if req.PostcodeFrom <= 0 || req.PostcodeTo < req.PostcodeFrom {
		return nil, domain.ErrInvalidPostcodeRange
	}
	if req.Multiplier <= 0 {
		return nil, domain.ErrInvalidRate
	}

	z := &domain.ZoneRating{
		ID:           s.genID.Generate(),
		PostcodeFrom: req.PostcodeFrom,
		PostcodeTo:   req.PostcodeTo,
		Zone:         req.Zone,
		Multiplier:   req.Multiplier,
	}
	if err := s.repo.InsertZoneRating(ctx, s.db, z); err != nil {
		return nil, err
	}
	return z, nil
}

func (s *Service) ListZoneRatings(ctx context.Context) ([]domain.ZoneRating, error) {
	return s.repo.ListZoneRatings(ctx, s.db)
}

func (s *Service) CreatePackageTemplate(ctx context.Context, req domain.CreatePackageTemplateRequest) (*domain.PackageTemplate, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.ErrInvalidID
	}
	if !validTier(req.Tier) {
		return nil, domain.ErrInvalidTier
	}
	if !validSolarStrategy(req.SolarSizingStrategy) || !validBatteryStrategy(req.BatterySizingStrategy) {
		return nil, domain.ErrInvalidStrategy
	}
	if req.SolarSizingValue <= 0 {
		return nil, domain.ErrInvalidStrategy
	}
	if req.BatterySizingStrategy != domain.BatterySizingNone && req.BatterySizingValue <= 0 {
		return nil, domain.ErrInvalidStrategy
	}

	multiplier := req.PriceMultiplier
	if multiplier == 0 {
		multiplier = 1
	}

	now := s.clock.Now(ctx)
	t := &domain.PackageTemplate{
		ID:                    s.genID.Generate(),
		Code:                  slug.Make(req.Name),
		Name:                  strings.TrimSpace(req.Name),
		Tier:                  req.Tier,
		SolarSizingStrategy:   req.SolarSizingStrategy,
		SolarSizingValue:      req.SolarSizingValue,
		BatterySizingStrategy: req.BatterySizingStrategy,
		BatterySizingValue:    req.BatterySizingValue,
		PriceMultiplier:       multiplier,
		DiscountPercent:       req.DiscountPercent,
		IncludeMonitoring:     req.IncludeMonitoring,
		IncludeWarranty:       req.IncludeWarranty,
		Active:                true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.repo.InsertPackageTemplate(ctx, s.db, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListPackageTemplates(ctx context.Context, activeOnly bool) ([]domain.PackageTemplate, error) {
	return s.repo.ListPackageTemplates(ctx, s.db, activeOnly)
}

func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	snap := domain.Snapshot{TakenAt: s.clock.Now(ctx)}

	active := true
	products, err := s.repo.ListProducts(ctx, s.db, domain.ProductFilter{Active: &active})
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.Products = products

	if snap.Offers, err = s.repo.ListOffers(ctx, s.db, true); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.InstallationItems, err = s.repo.ListInstallationItems(ctx, s.db, true); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.RateCards, err = s.repo.ListRateCards(ctx, s.db, true); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.ZoneRatings, err = s.repo.ListZoneRatings(ctx, s.db); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.Templates, err = s.repo.ListPackageTemplates(ctx, s.db, true); err != nil {
		return domain.Snapshot{}, err
	}

	return snap, nil
}

func validProductType(t domain.ProductType) bool {
	switch t {
	case domain.ProductTypePanel, domain.ProductTypeInverter, domain.ProductTypeBattery, domain.ProductTypeAddon:
		return true
	}
	return false
}

func validTier(t domain.ProductTier) bool {
	switch t {
	case domain.TierBudget, domain.TierMid, domain.TierPremium:
		return true
	}
	return false
}

func validCalculationType(t domain.CalculationType) bool {
	switch t {
	case domain.CalcFixed, domain.CalcPerPanel, domain.CalcPerWatt, domain.CalcPerKWH, domain.CalcPerKW, domain.CalcPerUnit:
		return true
	}
	return false
}

func validSolarStrategy(s domain.SolarSizingStrategy) bool {
	return s == domain.SolarSizingCoveragePercent || s == domain.SolarSizingFixedKW
}

func validBatteryStrategy(s domain.BatterySizingStrategy) bool {
	return s == domain.BatterySizingCoverageHours || s == domain.BatterySizingFixedKWH || s == domain.BatterySizingNone
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
