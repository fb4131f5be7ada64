package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	"github.com/sunquotelabs/sunquote/internal/clock"
	pricingdomain "github.com/sunquotelabs/sunquote/internal/pricing/domain"
	"github.com/sunquotelabs/sunquote/internal/quote/domain"
	settingsdomain "github.com/sunquotelabs/sunquote/internal/settings/domain"
	"github.com/sunquotelabs/sunquote/internal/solardata"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// defaultLosses are the derating factors assumed when the caller supplies
// none. Soiling and inverter efficiency apply regardless of the yield
// source.
var defaultLosses = pricingdomain.SystemLosses{
	SoilingPct:            2,
	InverterEfficiencyPct: 97,
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Catalog  catalogdomain.Service
	Settings settingsdomain.Service
	Engine   pricingdomain.Engine
	Solar    solardata.Source
}

type svc struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	catalog  catalogdomain.Service
	settings settingsdomain.Service
	engine   pricingdomain.Engine
	solar    solardata.Source
}

func New(p Params) domain.Service {
	return &svc{
		db:       p.DB,
		log:      p.Log.Named("quote.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		catalog:  p.Catalog,
		settings: p.Settings,
		engine:   p.Engine,
		solar:    p.Solar,
	}
}

func (s *svc) CreateDraft(ctx context.Context, req domain.CreateDraftRequest) (*domain.Quote, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, domain.ErrInvalidSession
	}
	if strings.TrimSpace(req.Address) == "" {
		return nil, domain.ErrInvalidAddress
	}
	if req.Postcode < 200 || req.Postcode > 9999 {
		return nil, domain.ErrInvalidPostcode
	}

	existing, err := s.repo.FindBySessionID(ctx, s.db, req.SessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := s.clock.Now(ctx)
	q := &domain.Quote{
		ID:           s.genID.Generate(),
		Reference:    "SQ-" + ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		SessionID:    req.SessionID,
		Status:       domain.StatusDraft,
		Version:      1,
		Address:      strings.TrimSpace(req.Address),
		Postcode:     req.Postcode,
		State:        strings.ToUpper(strings.TrimSpace(req.State)),
		PropertyType: req.PropertyType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, q); err != nil {
		return nil, err
	}
	s.log.Info("draft quote created",
		zap.Int64("quote_id", q.ID.Int64()),
		zap.String("reference", q.Reference))
	return q, nil
}

func (s *svc) UpdateHousehold(ctx context.Context, quoteID string, profile pricingdomain.HouseholdProfile) (*domain.Quote, error) {
	q, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	draft, err := q.AsDraft()
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}
	draft.Quote.HouseholdProfile = datatypes.JSON(raw)
	draft.Quote.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.UpdateInputs(ctx, s.db, draft.Quote); err != nil {
		return nil, err
	}
	return draft.Quote, nil
}

func (s *svc) CalculatePreview(ctx context.Context, req domain.CalculateRequest) (*domain.CompleteQuote, error) {
	q, err := s.load(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}
	if _, err := q.AsDraft(); err != nil {
		return nil, err
	}

	run, err := s.runPipeline(ctx, q, req.TemplateID, req.Roof, req.Profile)
	if err != nil {
		return nil, err
	}
	return &domain.CompleteQuote{
		QuoteID:   q.ID.String(),
		Reference: q.Reference,
		Result:    *run.result,
	}, nil
}

func (s *svc) SelectPackage(ctx context.Context, req domain.SelectPackageRequest) (*domain.Quote, error) {
	q, err := s.load(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}
	draft, err := q.AsDraft()
	if err != nil {
		return nil, err
	}

	run, err := s.runPipeline(ctx, q, req.TemplateID, nil, nil)
	if err != nil {
		return nil, err
	}

	audit, err := json.Marshal(run.result)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	frozen := *draft.Quote
	tid := run.template.ID
	frozen.TemplateID = &tid
	frozen.PackageCode = run.template.Code
	frozen.CustomizationNotes = req.CustomizationNotes
	frozen.SystemKW = run.result.Sizing.SystemKW
	frozen.PanelCount = run.result.Sizing.PanelCount
	frozen.PanelWattage = run.result.Sizing.PanelWattage
	frozen.BatteryKWH = run.result.Sizing.BatteryKWH
	frozen.BatterySubstituted = run.result.Sizing.BatterySubstituted
	frozen.PanelCost = run.result.Costs.PanelCost
	frozen.InverterCost = run.result.Costs.InverterCost
	frozen.BatteryCost = run.result.Costs.BatteryCost
	frozen.InstallationCost = run.result.Costs.InstallationCost
	frozen.InstallationRoute = string(run.result.Costs.InstallationRoute)
	frozen.TotalBeforeRebates = run.result.Costs.TotalBeforeRebates
	frozen.SolarRebate = run.result.Rebates.SolarRebate
	frozen.BatteryRebates = run.result.Rebates.FederalBatteryRebate + run.result.Rebates.StateBatteryRebate
	frozen.TotalRebates = run.result.Rebates.TotalRebates
	frozen.TotalAfterRebates = run.result.Rebates.TotalAfterRebates
	frozen.AnnualSavings = run.result.Projection.AnnualSavings
	frozen.Year10Savings = run.result.Projection.Year10Savings
	frozen.Year25Savings = run.result.Projection.Year25Savings
	frozen.PaybackYears = run.result.Projection.PaybackYears
	frozen.ROI = run.result.Projection.ROI
	frozen.CalculationAudit = datatypes.JSON(audit)
	takenAt := run.snapshot.TakenAt
	frozen.SnapshotTakenAt = &takenAt
	frozen.SelectedAt = &now
	frozen.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applied, err := s.repo.FreezeSelection(ctx, tx, &frozen)
		if err != nil {
			return err
		}
		if !applied {
			return domain.ErrAlreadyFrozen
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("package selected",
		zap.Int64("quote_id", frozen.ID.Int64()),
		zap.String("package_code", frozen.PackageCode),
		zap.Float64("total_after_rebates", frozen.TotalAfterRebates))

	return s.repo.FindByID(ctx, s.db, frozen.ID)
}

func (s *svc) Get(ctx context.Context, quoteID string) (*domain.Quote, *pricingdomain.Result, error) {
	q, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, nil, err
	}
	if q.Frozen() {
		return q, nil, nil
	}

	// Drafts get a best-effort live preview against a representative
	// template. Missing inputs or calculation errors degrade to no preview
	// rather than failing the read.
	result, err := s.previewDraft(ctx, q)
	if err != nil {
		s.log.Debug("draft preview unavailable",
			zap.Int64("quote_id", q.ID.Int64()), zap.Error(err))
		return q, nil, nil
	}
	return q, result, nil
}

func (s *svc) GetBySession(ctx context.Context, sessionID string) (*domain.Quote, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, domain.ErrInvalidSession
	}
	q, err := s.repo.FindBySessionID(ctx, s.db, sessionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return q, nil
}

func (s *svc) Transition(ctx context.Context, quoteID string, to domain.Status) (*domain.Quote, error) {
	q, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(q.Status, to) {
		return nil, domain.ErrInvalidTransition
	}
	applied, err := s.repo.UpdateStatus(ctx, s.db, q.ID, q.Status, to)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost a race with a concurrent transition; the expected status
		// no longer holds.
		return nil, domain.ErrInvalidTransition
	}
	s.log.Info("quote status changed",
		zap.Int64("quote_id", q.ID.Int64()),
		zap.String("from", string(q.Status)),
		zap.String("to", string(to)))
	return s.repo.FindByID(ctx, s.db, q.ID)
}

// pipelineRun bundles one calculation pass with the snapshot and template
// it priced against, for freezing.
type pipelineRun struct {
	result   *pricingdomain.Result
	snapshot catalogdomain.Snapshot
	template catalogdomain.PackageTemplate
}

// runPipeline resolves inputs and executes one engine pass. The catalog
// snapshot is taken exactly once here; everything downstream reads from it.
func (s *svc) runPipeline(ctx context.Context, q *domain.Quote, templateID string, roofOverride *pricingdomain.RoofData, profileOverride *pricingdomain.HouseholdProfile) (pipelineRun, error) {
	tid, err := parseID(templateID)
	if err != nil {
		return pipelineRun{}, domain.ErrTemplateNotFound
	}

	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return pipelineRun{}, err
	}
	tpl, ok := snap.TemplateByID(tid)
	if !ok {
		return pipelineRun{}, domain.ErrTemplateNotFound
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return pipelineRun{}, err
	}

	profile, err := s.resolveProfile(q, profileOverride)
	if err != nil {
		return pipelineRun{}, err
	}
	roof, err := s.resolveRoof(ctx, q, roofOverride)
	if err != nil {
		return pipelineRun{}, err
	}

	result, err := s.engine.Calculate(ctx, pricingdomain.Input{
		Postcode: q.Postcode,
		State:    q.State,
		Profile:  profile,
		Roof:     roof,
		Losses:   defaultLosses,
		Template: tpl,
		Snapshot: snap,
		Settings: settings,
		Now:      s.clock.Now(ctx),
	})
	if err != nil {
		return pipelineRun{}, err
	}
	return pipelineRun{result: result, snapshot: snap, template: tpl}, nil
}

func (s *svc) resolveProfile(q *domain.Quote, override *pricingdomain.HouseholdProfile) (pricingdomain.HouseholdProfile, error) {
	if override != nil {
		return *override, nil
	}
	if len(q.HouseholdProfile) == 0 {
		return pricingdomain.HouseholdProfile{}, domain.ErrMissingProfile
	}
	var profile pricingdomain.HouseholdProfile
	if err := json.Unmarshal(q.HouseholdProfile, &profile); err != nil {
		return pricingdomain.HouseholdProfile{}, err
	}
	return profile, nil
}

// resolveRoof prefers caller-supplied data, then the stored copy, then an
// external fetch by address. A successful fetch is written back onto the
// draft so later passes skip the network.
func (s *svc) resolveRoof(ctx context.Context, q *domain.Quote, override *pricingdomain.RoofData) (pricingdomain.RoofData, error) {
	if override != nil {
		return *override, nil
	}
	if len(q.RoofData) > 0 {
		var roof pricingdomain.RoofData
		if err := json.Unmarshal(q.RoofData, &roof); err != nil {
			return pricingdomain.RoofData{}, err
		}
		return roof, nil
	}

	roof, err := s.solar.RoofData(ctx, q.Address)
	if err != nil {
		return pricingdomain.RoofData{}, err
	}
	if !q.Frozen() {
		raw, merr := json.Marshal(roof)
		if merr == nil {
			q.RoofData = datatypes.JSON(raw)
			q.UpdatedAt = s.clock.Now(ctx)
			if uerr := s.repo.UpdateInputs(ctx, s.db, q); uerr != nil {
				s.log.Warn("roof data write-back failed",
					zap.Int64("quote_id", q.ID.Int64()), zap.Error(uerr))
			}
		}
	}
	return roof, nil
}

// previewDraft prices a draft against its stored inputs using the mid tier
// template, or the lowest-ID active template when no mid tier exists.
func (s *svc) previewDraft(ctx context.Context, q *domain.Quote) (*pricingdomain.Result, error) {
	if len(q.HouseholdProfile) == 0 {
		return nil, domain.ErrMissingProfile
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	tpl, ok := previewTemplate(snap)
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	run, err := s.runPipeline(ctx, q, tpl.ID.String(), nil, nil)
	if err != nil {
		return nil, err
	}
	return run.result, nil
}

func previewTemplate(snap catalogdomain.Snapshot) (catalogdomain.PackageTemplate, bool) {
	var chosen catalogdomain.PackageTemplate
	found := false
	for _, t := range snap.Templates {
		if !t.Active {
			continue
		}
		if !found || betterPreview(t, chosen) {
			chosen = t
			found = true
		}
	}
	return chosen, found
}

func betterPreview(a, b catalogdomain.PackageTemplate) bool {
	aMid := a.Tier == catalogdomain.TierMid
	bMid := b.Tier == catalogdomain.TierMid
	if aMid != bMid {
		return aMid
	}
	return a.ID < b.ID
}

func (s *svc) load(ctx context.Context, quoteID string) (*domain.Quote, error) {
	id, err := parseID(quoteID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	q, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return q, nil
}

func parseID(raw string) (snowflake.ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidID
	}
	return snowflake.ID(n), nil
}
