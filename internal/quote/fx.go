package quote

import (
	"github.com/sunquotelabs/sunquote/internal/quote/repository"
	"github.com/sunquotelabs/sunquote/internal/quote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quote.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
