package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/sadhanahub/sadhana/internal/config"
	"github.com/sadhanahub/sadhana/internal/logger"
	"github.com/sadhanahub/sadhana/internal/migration"
	"github.com/sadhanahub/sadhana/internal/server"
	"github.com/sadhanahub/sadhana/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)

	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
