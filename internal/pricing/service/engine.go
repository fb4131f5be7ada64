package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sunquotelabs/sunquote/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Registry *prometheus.Registry
}

type Engine struct {
	log *zap.Logger

	calculations *prometheus.CounterVec
	duration     prometheus.Histogram
}

func New(p Params) domain.Engine {
	e := &Engine{
		log: p.Log.Named("pricing.engine"),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sunquote_pricing_calculations_total",
			Help: "Pricing pipeline runs by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sunquote_pricing_calculation_seconds",
			Help:    "Pricing pipeline duration.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	p.Registry.MustRegister(e.calculations, e.duration)
	return e
}

// Calculate runs the pipeline: consumption profile, production estimate,
// sizing, cost assembly, rebates, financial projection. It reads only the
// snapshot and settings carried in the input, so a frozen quote's figures
// are exactly what this returned at selection time.
func (e *Engine) Calculate(ctx context.Context, in domain.Input) (*domain.Result, error) {
	start := time.Now()
	result, err := e.calculate(in)
	e.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		e.calculations.WithLabelValues("error").Inc()
		return nil, err
	}
	e.calculations.WithLabelValues("ok").Inc()

	e.log.Debug("calculation complete",
		zap.Float64("system_kw", result.Sizing.SystemKW),
		zap.Int("panel_count", result.Sizing.PanelCount),
		zap.Float64("battery_kwh", result.Sizing.BatteryKWH),
		zap.Float64("total_after_rebates", result.Rebates.TotalAfterRebates),
	)
	return result, nil
}

func (e *Engine) calculate(in domain.Input) (*domain.Result, error) {
	if in.Postcode <= 0 {
		return nil, domain.NewInvalidInput("postcode", "must be positive")
	}
	if in.Snapshot.TakenAt.IsZero() {
		return nil, domain.NewInvalidInput("snapshot", "missing catalog snapshot")
	}
	if in.Now.IsZero() {
		return nil, domain.NewInvalidInput("now", "calculation time required")
	}

	consumption, err := EstimateConsumption(in.Profile)
	if err != nil {
		return nil, err
	}

	panel, panelOffer, err := SelectPanelProduct(in.Snapshot, in.Template.Tier)
	if err != nil {
		return nil, err
	}

	// Per-panel yield must be known before the panel count is: estimate a
	// single panel first, then scale (production is linear in count).
	perPanel, err := EstimateProduction(1, panel.WattageOrCapacity, in.Roof, in.Losses)
	if err != nil {
		return nil, err
	}

	sizing, err := SizeSystem(in.Template, consumption, perPanel, panel.WattageOrCapacity, in.Roof, in.Snapshot)
	if err != nil {
		return nil, err
	}

	production, err := EstimateProduction(sizing.PanelCount, panel.WattageOrCapacity, in.Roof, in.Losses)
	if err != nil {
		return nil, err
	}

	costs, err := AssembleCosts(in.Snapshot, in.Template, sizing, panel, panelOffer)
	if err != nil {
		return nil, err
	}

	rebates, err := CalculateRebates(in.Snapshot, in.Settings, sizing, costs, in.Postcode, in.State, in.Now)
	if err != nil {
		return nil, err
	}

	projection := Project(rebates.TotalAfterRebates, production, consumption, sizing, in.Settings)

	return &domain.Result{
		Consumption: consumption,
		Production:  production,
		Sizing:      sizing,
		Costs:       costs,
		Rebates:     rebates,
		Projection:  projection,
	}, nil
}
