package migration

import (
	"github.com/sadhanahub/sadhana/internal/config"
	ledgerdomain "github.com/sadhanahub/sadhana/internal/ledger/domain"
	rosterdomain "github.com/sadhanahub/sadhana/internal/roster/domain"
	"github.com/sadhanahub/sadhana/internal/seed"
	tenantdomain "github.com/sadhanahub/sadhana/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite setups (local development mostly) derive the
			// schema from the models, unique indexes included.
			if err := conn.AutoMigrate(
				&tenantdomain.Tenant{},
				&rosterdomain.Devotee{},
				&ledgerdomain.Entry{},
			); err != nil {
				return err
			}
		}

		if cfg.Bootstrap.Enabled {
			return seed.EnsureBootstrapTenant(conn, cfg.Bootstrap)
		}
		return nil
	}),
)
