package migration

import (
	"github.com/sunquotelabs/sunquote/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(cfg *config.Config, conn *gorm.DB) error {
		if cfg.Database.Driver == "sqlite" {
			return AutoMigrateSQLite(conn)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
