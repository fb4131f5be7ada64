package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	catalogrepository "github.com/sunquotelabs/sunquote/internal/catalog/repository"
	catalogservice "github.com/sunquotelabs/sunquote/internal/catalog/service"
	"github.com/sunquotelabs/sunquote/internal/clock"
	"github.com/sunquotelabs/sunquote/internal/config"
	pricingdomain "github.com/sunquotelabs/sunquote/internal/pricing/domain"
	pricingservice "github.com/sunquotelabs/sunquote/internal/pricing/service"
	"github.com/sunquotelabs/sunquote/internal/quote/domain"
	"github.com/sunquotelabs/sunquote/internal/quote/repository"
	settingsdomain "github.com/sunquotelabs/sunquote/internal/settings/domain"
	settingsservice "github.com/sunquotelabs/sunquote/internal/settings/service"
	"github.com/sunquotelabs/sunquote/internal/solardata"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// stubSource serves fixed roof data without any network.
type stubSource struct {
	roof pricingdomain.RoofData
	err  error
}

func (s stubSource) RoofData(ctx context.Context, address string) (pricingdomain.RoofData, error) {
	return s.roof, s.err
}

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Product{},
		&catalogdomain.SupplierOffer{},
		&catalogdomain.InstallationCostItem{},
		&catalogdomain.SubcontractorRateCard{},
		&catalogdomain.ZoneRating{},
		&catalogdomain.PackageTemplate{},
		&settingsdomain.Settings{},
		&domain.Quote{},
	))

	seedCatalog(t, db)

	src := stubSource{roof: pricingdomain.RoofData{MaxPanelCount: 40, PerPanelYearlyKWH: 480}}
	return newServiceWithSource(t, db, src), db
}

func newServiceWithSource(t *testing.T, db *gorm.DB, src solardata.Source) domain.Service {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	clk := clock.Fixed(testNow)
	cfg := &config.Config{}

	catalogSvc := catalogservice.New(catalogservice.Params{
		DB: db, Log: log, GenID: node, Clock: clk, Repo: catalogrepository.Provide(),
	})
	settingsSvc := settingsservice.New(settingsservice.Params{
		DB: db, Log: log, Clock: clk, Cfg: cfg,
	})
	engine := pricingservice.New(pricingservice.Params{
		Log: log, Registry: prometheus.NewRegistry(),
	})

	return New(Params{
		DB:       db,
		Log:      log,
		GenID:    node,
		Clock:    clk,
		Repo:     repository.Provide(),
		Catalog:  catalogSvc,
		Settings: settingsSvc,
		Engine:   engine,
		Solar:    src,
	})
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	now := testNow

	require.NoError(t, db.Create([]catalogdomain.Product{
		{ID: 1, Type: catalogdomain.ProductTypePanel, Manufacturer: "Trina", Model: "Vertex S+ 440", Tier: catalogdomain.TierMid, WattageOrCapacity: 440, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Type: catalogdomain.ProductTypeInverter, Manufacturer: "Sungrow", Model: "SG5.0RS", Tier: catalogdomain.TierMid, WattageOrCapacity: 5000, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: 3, Type: catalogdomain.ProductTypeInverter, Manufacturer: "Sungrow", Model: "SG8.0RS", Tier: catalogdomain.TierMid, WattageOrCapacity: 8000, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: 4, Type: catalogdomain.ProductTypeBattery, Manufacturer: "Sungrow", Model: "SBR096", Tier: catalogdomain.TierMid, WattageOrCapacity: 9.6, Active: true, CreatedAt: now, UpdatedAt: now},
	}).Error)

	require.NoError(t, db.Create([]catalogdomain.SupplierOffer{
		{ID: 11, ProductID: 1, SupplierID: 1, SupplierName: "One Stop", UnitCost: 150, MarkupPercent: 25, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: 12, ProductID: 2, SupplierID: 1, SupplierName: "One Stop", UnitCost: 980, MarkupPercent: 20, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: 13, ProductID: 3, SupplierID: 1, SupplierName: "One Stop", UnitCost: 1420, MarkupPercent: 20, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: 14, ProductID: 4, SupplierID: 1, SupplierName: "One Stop", UnitCost: 5200, MarkupPercent: 18, Active: true, CreatedAt: now, UpdatedAt: now},
	}).Error)

	require.NoError(t, db.Create([]catalogdomain.InstallationCostItem{
		{ID: 21, Code: "base_install", Category: "labor", CalculationType: catalogdomain.CalcFixed, BaseRate: 1200, ProviderType: catalogdomain.ProviderInternal, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: 22, Code: "panel_mounting", Category: "labor", CalculationType: catalogdomain.CalcPerPanel, BaseRate: 55, ProviderType: catalogdomain.ProviderInternal, Active: true, CreatedAt: now, UpdatedAt: now},
	}).Error)

	require.NoError(t, db.Create([]catalogdomain.SubcontractorRateCard{
		{ID: 31, SubcontractorID: 1, Name: "Westside Solar Crews", PerWattRate: 0.42, BatteryBaseRate: 600, BatteryPerKwhRate: 70, Active: true, CreatedAt: now, UpdatedAt: now},
	}).Error)

	require.NoError(t, db.Create([]catalogdomain.ZoneRating{
		{ID: 41, PostcodeFrom: 6000, PostcodeTo: 6799, Zone: 3, Multiplier: 1.382},
	}).Error)

	require.NoError(t, db.Create([]catalogdomain.PackageTemplate{
		{ID: 51, Code: "comfort", Name: "Comfort", Tier: catalogdomain.TierMid, SolarSizingStrategy: catalogdomain.SolarSizingCoveragePercent, SolarSizingValue: 100, BatterySizingStrategy: catalogdomain.BatterySizingNone, PriceMultiplier: 1.0, Active: true, CreatedAt: now, UpdatedAt: now},
	}).Error)

	require.NoError(t, db.Create(&settingsdomain.Settings{
		ID: 1, CertificatePrice: 39.40, DeemingEndYear: 2030, TariffPerKWH: 0.31,
		FeedInPerKWH: 0.05, EscalationRate: 0.03, DiscountRate: 0.05, DegradationRate: 0.005,
		InverterReplacementYear: 12, InverterReplacementCost: 2200, ExportLimitKW: 5.0,
		ServicedState: "WA", UpdatedAt: now,
	}).Error)
}

func draftWithProfile(t *testing.T, svc domain.Service, session string) *domain.Quote {
	t.Helper()
	q, err := svc.CreateDraft(context.Background(), domain.CreateDraftRequest{
		SessionID:    session,
		Address:      "12 Marine Terrace, Perth",
		Postcode:     6000,
		State:        "wa",
		PropertyType: "house",
	})
	require.NoError(t, err)

	override := 20.0
	q, err = svc.UpdateHousehold(context.Background(), q.ID.String(), pricingdomain.HouseholdProfile{
		Occupants:                   4,
		ACTier:                      pricingdomain.UsageTierModerate,
		DailyConsumptionOverrideKWH: &override,
	})
	require.NoError(t, err)
	return q
}

func TestCreateDraftIdempotentPerSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{
		SessionID: "session-a", Address: "12 Marine Terrace, Perth", Postcode: 6000, State: "WA", PropertyType: "house",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, first.Status)
	require.Contains(t, first.Reference, "SQ-")

	second, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{
		SessionID: "session-a", Address: "99 Somewhere Else", Postcode: 6100, State: "WA", PropertyType: "house",
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.Address, second.Address)
}

func TestCreateDraftValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{Address: "x", Postcode: 6000})
	require.ErrorIs(t, err, domain.ErrInvalidSession)

	_, err = svc.CreateDraft(ctx, domain.CreateDraftRequest{SessionID: "s", Postcode: 6000})
	require.ErrorIs(t, err, domain.ErrInvalidAddress)

	_, err = svc.CreateDraft(ctx, domain.CreateDraftRequest{SessionID: "s", Address: "x", Postcode: 12})
	require.ErrorIs(t, err, domain.ErrInvalidPostcode)
}

func TestCalculatePreviewDoesNotPersist(t *testing.T) {
	svc, db := newTestService(t)
	q := draftWithProfile(t, svc, "session-preview")

	preview, err := svc.CalculatePreview(context.Background(), domain.CalculateRequest{
		QuoteID: q.ID.String(), TemplateID: "51",
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, preview.Result.Sizing.PanelCount, 15)
	require.Greater(t, preview.Result.Rebates.TotalAfterRebates, 0.0)

	var stored domain.Quote
	require.NoError(t, db.First(&stored, "id = ?", q.ID).Error)
	require.Equal(t, domain.StatusDraft, stored.Status)
	require.Zero(t, stored.TotalAfterRebates)
	require.Nil(t, stored.TemplateID)
}

func TestSelectPackageFreezesQuote(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	q := draftWithProfile(t, svc, "session-freeze")

	frozen, err := svc.SelectPackage(ctx, domain.SelectPackageRequest{
		QuoteID: q.ID.String(), TemplateID: "51", CustomizationNotes: "black frames",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPackageSelected, frozen.Status)
	require.Equal(t, "comfort", frozen.PackageCode)
	require.Greater(t, frozen.TotalAfterRebates, 0.0)
	require.NotNil(t, frozen.SelectedAt)
	require.NotNil(t, frozen.SnapshotTakenAt)
	require.NotEmpty(t, frozen.CalculationAudit)

	// Catalog edits after selection must not move the frozen figures.
	require.NoError(t, db.Exec(`UPDATE supplier_offers SET unit_cost = unit_cost * 3`).Error)

	got, preview, err := svc.Get(ctx, q.ID.String())
	require.NoError(t, err)
	require.Nil(t, preview)
	require.Equal(t, frozen.TotalAfterRebates, got.TotalAfterRebates)
	require.Equal(t, frozen.TotalBeforeRebates, got.TotalBeforeRebates)
	require.Equal(t, frozen.AnnualSavings, got.AnnualSavings)
}

func TestSelectPackageTwiceRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	q := draftWithProfile(t, svc, "session-double")

	_, err := svc.SelectPackage(ctx, domain.SelectPackageRequest{QuoteID: q.ID.String(), TemplateID: "51"})
	require.NoError(t, err)

	_, err = svc.SelectPackage(ctx, domain.SelectPackageRequest{QuoteID: q.ID.String(), TemplateID: "51"})
	require.ErrorIs(t, err, domain.ErrAlreadyFrozen)
}

func TestSelectPackageUnknownZoneNoPartialWrite(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	q, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{
		SessionID: "session-zone", Address: "1 Test St", Postcode: 2000, State: "NSW", PropertyType: "house",
	})
	require.NoError(t, err)

	override := 20.0
	_, err = svc.UpdateHousehold(ctx, q.ID.String(), pricingdomain.HouseholdProfile{
		Occupants: 4, DailyConsumptionOverrideKWH: &override,
	})
	require.NoError(t, err)

	_, err = svc.SelectPackage(ctx, domain.SelectPackageRequest{QuoteID: q.ID.String(), TemplateID: "51"})
	var unknown *pricingdomain.UnknownZoneError
	require.ErrorAs(t, err, &unknown)

	var stored domain.Quote
	require.NoError(t, db.First(&stored, "id = ?", q.ID).Error)
	require.Equal(t, domain.StatusDraft, stored.Status)
	require.Zero(t, stored.TotalAfterRebates)
	require.Nil(t, stored.SelectedAt)
}

func TestUpdateHouseholdRejectedAfterFreeze(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	q := draftWithProfile(t, svc, "session-locked")

	_, err := svc.SelectPackage(ctx, domain.SelectPackageRequest{QuoteID: q.ID.String(), TemplateID: "51"})
	require.NoError(t, err)

	_, err = svc.UpdateHousehold(ctx, q.ID.String(), pricingdomain.HouseholdProfile{Occupants: 2})
	require.ErrorIs(t, err, domain.ErrAlreadyFrozen)
}

func TestTransitionFollowsStateMachine(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	q := draftWithProfile(t, svc, "session-flow")

	_, err := svc.SelectPackage(ctx, domain.SelectPackageRequest{QuoteID: q.ID.String(), TemplateID: "51"})
	require.NoError(t, err)

	for _, next := range []domain.Status{domain.StatusSent, domain.StatusViewed, domain.StatusAccepted, domain.StatusPaid} {
		got, err := svc.Transition(ctx, q.ID.String(), next)
		require.NoError(t, err)
		require.Equal(t, next, got.Status)
	}

	_, err = svc.Transition(ctx, q.ID.String(), domain.StatusExpired)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransitionRejectedWhileDraft(t *testing.T) {
	svc, _ := newTestService(t)
	q := draftWithProfile(t, svc, "session-early")

	_, err := svc.Transition(context.Background(), q.ID.String(), domain.StatusSent)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGetBySession(t *testing.T) {
	svc, _ := newTestService(t)
	q := draftWithProfile(t, svc, "session-lookup")

	got, err := svc.GetBySession(context.Background(), "session-lookup")
	require.NoError(t, err)
	require.Equal(t, q.ID, got.ID)

	_, err = svc.GetBySession(context.Background(), "session-unknown")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetDraftIncludesLivePreview(t *testing.T) {
	svc, _ := newTestService(t)
	q := draftWithProfile(t, svc, "session-live")

	got, preview, err := svc.Get(context.Background(), q.ID.String())
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, got.Status)
	require.NotNil(t, preview)
	require.Greater(t, preview.Rebates.TotalAfterRebates, 0.0)
}

func TestCalculatePreviewMissingProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	q, err := svc.CreateDraft(ctx, domain.CreateDraftRequest{
		SessionID: "session-empty", Address: "1 Test St", Postcode: 6000, State: "WA", PropertyType: "house",
	})
	require.NoError(t, err)

	_, err = svc.CalculatePreview(ctx, domain.CalculateRequest{QuoteID: q.ID.String(), TemplateID: "51"})
	require.ErrorIs(t, err, domain.ErrMissingProfile)
}

func TestExternalDataFailureAbortsCalculation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	q := draftWithProfile(t, svc, "session-offline")

	// Same database, but the roof data source is down. The stored draft
	// has no roof data yet because draftWithProfile never calculates.
	failing := newServiceWithSource(t, db, stubSource{err: pricingdomain.ErrExternalDataUnavailable})

	_, err := failing.CalculatePreview(ctx, domain.CalculateRequest{QuoteID: q.ID.String(), TemplateID: "51"})
	require.ErrorIs(t, err, pricingdomain.ErrExternalDataUnavailable)
}
