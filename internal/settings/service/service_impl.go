package service

import (
	"context"
	"strings"

	"github.com/sunquotelabs/sunquote/internal/clock"
	"github.com/sunquotelabs/sunquote/internal/config"
	"github.com/sunquotelabs/sunquote/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Cfg   *config.Config
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) domain.Service {
	s := &Service{
		db:    p.DB,
		log:   p.Log.Named("settings.service"),
		clock: p.Clock,
	}

	// The traded certificate price moves often enough that ops update it
	// through the watched config file rather than a deploy.
	p.Cfg.OnReload(func(pc config.PricingConfig) {
		if pc.CertificatePrice <= 0 {
			return
		}
		price := pc.CertificatePrice
		if _, err := s.Update(context.Background(), domain.UpdateRequest{CertificatePrice: &price}); err != nil {
			s.log.Warn("certificate price reload failed", zap.Error(err))
			return
		}
		s.log.Info("certificate price reloaded", zap.Float64("price", price))
	})

	return s
}

func (s *Service) Get(ctx context.Context) (domain.Settings, error) {
	var row domain.Settings
	err := s.db.WithContext(ctx).Raw(`SELECT * FROM system_settings WHERE id = 1`).Scan(&row).Error
	if err != nil {
		return domain.Settings{}, err
	}
	if row.ID == 0 {
		return domain.Settings{}, domain.ErrNotSeeded
	}
	return row, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Settings, error) {
	row, err := s.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	if req.CertificatePrice != nil {
		if *req.CertificatePrice <= 0 {
			return domain.Settings{}, domain.ErrInvalidValue
		}
		row.CertificatePrice = *req.CertificatePrice
	}
	if req.DeemingEndYear != nil {
		if *req.DeemingEndYear < 2000 {
			return domain.Settings{}, domain.ErrInvalidValue
		}
		row.DeemingEndYear = *req.DeemingEndYear
	}
	if req.TariffPerKWH != nil {
		if *req.TariffPerKWH <= 0 {
			return domain.Settings{}, domain.ErrInvalidValue
		}
		row.TariffPerKWH = *req.TariffPerKWH
	}
	if req.FeedInPerKWH != nil {
		if *req.FeedInPerKWH < 0 {
			return domain.Settings{}, domain.ErrInvalidValue
		}
		row.FeedInPerKWH = *req.FeedInPerKWH
	}
	if req.EscalationRate != nil {
		row.EscalationRate = *req.EscalationRate
	}
	if req.DiscountRate != nil {
		row.DiscountRate = *req.DiscountRate
	}
	if req.DegradationRate != nil {
		if *req.DegradationRate < 0 || *req.DegradationRate >= 1 {
			return domain.Settings{}, domain.ErrInvalidValue
		}
		row.DegradationRate = *req.DegradationRate
	}
	if req.InverterReplacementYear != nil {
		if *req.InverterReplacementYear < 0 {
			return domain.Settings{}, domain.ErrInvalidValue
		}
		row.InverterReplacementYear = *req.InverterReplacementYear
	}
	if req.InverterReplacementCost != nil {
		if *req.InverterReplacementCost < 0 {
			return domain.Settings{}, domain.ErrInvalidValue
		}
		row.InverterReplacementCost = *req.InverterReplacementCost
	}
	if req.ExportLimitKW != nil {
		if *req.ExportLimitKW < 0 {
			return domain.Settings{}, domain.ErrInvalidValue
		}
		row.ExportLimitKW = *req.ExportLimitKW
	}
	if req.ServicedState != nil {
		state := strings.ToUpper(strings.TrimSpace(*req.ServicedState))
		if state == "" {
			return domain.Settings{}, domain.ErrInvalidValue
		}
		row.ServicedState = state
	}

	row.UpdatedAt = s.clock.Now(ctx)
	err = s.db.WithContext(ctx).Exec(
		`UPDATE system_settings
		 SET certificate_price = ?, deeming_end_year = ?, tariff_per_kwh = ?, feed_in_per_kwh = ?,
		     escalation_rate = ?, discount_rate = ?, degradation_rate = ?,
		     inverter_replacement_year = ?, inverter_replacement_cost = ?, export_limit_kw = ?,
		     serviced_state = ?, updated_at = ?
		 WHERE id = 1`,
		row.CertificatePrice, row.DeemingEndYear, row.TariffPerKWH, row.FeedInPerKWH,
		row.EscalationRate, row.DiscountRate, row.DegradationRate,
		row.InverterReplacementYear, row.InverterReplacementCost, row.ExportLimitKW,
		row.ServicedState, row.UpdatedAt,
	).Error
	if err != nil {
		return domain.Settings{}, err
	}
	return row, nil
}
