package catalog

import (
	"github.com/sunquotelabs/sunquote/internal/catalog/repository"
	"github.com/sunquotelabs/sunquote/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
