package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/waslahq/wasla/internal/clock"
	"github.com/waslahq/wasla/internal/config"
	"github.com/waslahq/wasla/internal/migration"
	"github.com/waslahq/wasla/internal/observability"
	"github.com/waslahq/wasla/internal/server"
	"github.com/waslahq/wasla/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNodeID)
}
