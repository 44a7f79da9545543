package migration

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	authdomain "github.com/waslahq/wasla/internal/auth/domain"
	bundledomain "github.com/waslahq/wasla/internal/bundle/domain"
	"github.com/waslahq/wasla/internal/clock"
	"github.com/waslahq/wasla/internal/config"
	contactdomain "github.com/waslahq/wasla/internal/contact/domain"
	dashboarddomain "github.com/waslahq/wasla/internal/dashboard/domain"
	discountdomain "github.com/waslahq/wasla/internal/discount/domain"
	paymentdomain "github.com/waslahq/wasla/internal/payment/domain"
	"github.com/waslahq/wasla/internal/seed"
	subscriptiondomain "github.com/waslahq/wasla/internal/subscription/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, clk clock.Clock) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// SQLite and MySQL installs rely on the model schema.
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&bundledomain.Bundle{},
				&discountdomain.Rule{},
				&paymentdomain.Payment{},
				&subscriptiondomain.Subscription{},
				&dashboarddomain.Dashboard{},
				&contactdomain.ContactRequest{},
				&contactdomain.ContactNote{},
				&contactdomain.LeadAssignment{},
			); err != nil {
				return err
			}
		}

		if err := seed.EnsureDefaultBundles(conn, node, clk); err != nil {
			return err
		}
		if err := seed.EnsureDefaultDiscounts(conn, node, clk); err != nil {
			return err
		}
		if cfg.Bootstrap.EnsureDefaultAdmin && cfg.Bootstrap.AdminPassword != "" {
			return seed.EnsureDefaultAdmin(conn, node, clk, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		}
		return nil
	}),
)
