package seed

import (
	"context"

	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("seed",
	fx.Invoke(func(svc catalogdomain.Service, log *zap.Logger) error {
		return Run(context.Background(), svc, log.Named("seed"))
	}),
)
