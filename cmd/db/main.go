package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/socialfolio/folio/cmd/db/commands"
	"github.com/socialfolio/folio/internal/database/migrations"
	"github.com/socialfolio/folio/internal/setup"
	"github.com/socialfolio/folio/internal/setup/telemetry"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
)

// DBLogDir specifies where database tool log files are stored.
const DBLogDir = "logs/db_logs"

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	app, err := setup.InitializeApp(ctx, telemetry.ServiceCLI, DBLogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(ctx)

	deps := &commands.CLIDependencies{
		DB:       app.DB,
		Services: app.Services,
		Migrator: migrate.NewMigrator(app.DB.DB(), migrations.Migrations),
		Logger:   app.Logger,
	}

	var cmds []*cli.Command
	cmds = append(cmds, commands.MigrationCommands(deps)...)
	cmds = append(cmds, commands.ContestCommands(deps)...)
	cmds = append(cmds, commands.UserCommands(deps)...)
	cmds = append(cmds, commands.LegacyCommands(deps)...)

	root := &cli.Command{
		Name:     "db",
		Usage:    "Database and contest management tool",
		Commands: cmds,
	}

	return root.Run(ctx, os.Args)
}
