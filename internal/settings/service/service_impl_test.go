package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/sunquotelabs/sunquote/internal/clock"
	"github.com/sunquotelabs/sunquote/internal/config"
	"github.com/sunquotelabs/sunquote/internal/settings/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, seed bool) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Settings{}))

	if seed {
		require.NoError(t, db.Create(&domain.Settings{
			ID: 1, CertificatePrice: 39.40, DeemingEndYear: 2030, TariffPerKWH: 0.31,
			FeedInPerKWH: 0.05, EscalationRate: 0.03, DiscountRate: 0.05, DegradationRate: 0.005,
			InverterReplacementYear: 12, InverterReplacementCost: 2200, ExportLimitKW: 5.0,
			ServicedState: "WA", UpdatedAt: testNow,
		}).Error)
	}

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.Fixed(testNow),
		Cfg:   &config.Config{},
	})
}

func TestGetRequiresSeededRow(t *testing.T) {
	svc := newTestService(t, false)

	_, err := svc.Get(context.Background())
	require.ErrorIs(t, err, domain.ErrNotSeeded)
}

func TestGetReturnsSeededValues(t *testing.T) {
	svc := newTestService(t, true)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 39.40, got.CertificatePrice)
	require.Equal(t, "WA", got.ServicedState)
}

func TestUpdatePartialFields(t *testing.T) {
	svc := newTestService(t, true)
	ctx := context.Background()

	price := 36.10
	state := "  nsw "
	updated, err := svc.Update(ctx, domain.UpdateRequest{
		CertificatePrice: &price,
		ServicedState:    &state,
	})
	require.NoError(t, err)
	require.Equal(t, 36.10, updated.CertificatePrice)
	require.Equal(t, "NSW", updated.ServicedState)
	// Untouched fields keep their values.
	require.Equal(t, 0.31, updated.TariffPerKWH)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 36.10, got.CertificatePrice)
	require.Equal(t, "NSW", got.ServicedState)
}

func TestUpdateRejectsInvalidValues(t *testing.T) {
	svc := newTestService(t, true)
	ctx := context.Background()

	bad := -1.0
	_, err := svc.Update(ctx, domain.UpdateRequest{CertificatePrice: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidValue)

	degradation := 1.0
	_, err = svc.Update(ctx, domain.UpdateRequest{DegradationRate: &degradation})
	require.ErrorIs(t, err, domain.ErrInvalidValue)

	empty := "  "
	_, err = svc.Update(ctx, domain.UpdateRequest{ServicedState: &empty})
	require.ErrorIs(t, err, domain.ErrInvalidValue)

	// A failed update leaves the stored row untouched.
	got, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 39.40, got.CertificatePrice)
}
