package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// migrationNamePattern restricts new migration names to snake case.
var migrationNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// MigrationCommands returns the schema migration commands.
func MigrationCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "init",
			Usage:  "Create the migration bookkeeping tables",
			Action: handleInit(deps),
		},
		{
			Name:   "migrate",
			Usage:  "Apply every pending schema migration as one group",
			Action: handleMigrate(deps),
		},
		{
			Name:   "rollback",
			Usage:  "Revert the most recently applied group",
			Action: handleRollback(deps),
		},
		{
			Name:   "status",
			Usage:  "List schema migrations and whether they are applied",
			Action: handleStatus(deps),
		},
		{
			Name:      "create",
			Usage:     "Scaffold a Go migration in the migrations package",
			ArgsUsage: "NAME",
			Action:    handleCreate(deps),
		},
	}
}

// withLock runs fn while holding the migration lock so two operators cannot
// change the schema at once.
func withLock(ctx context.Context, deps *CLIDependencies, fn func() (*migrate.MigrationGroup, error)) (*migrate.MigrationGroup, error) {
	if err := deps.Migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migration tables: %w", err)
	}

	if err := deps.Migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		if err := deps.Migrator.Unlock(ctx); err != nil {
			deps.Logger.Warn("Failed to release migration lock", zap.Error(err))
		}
	}()

	return fn()
}

// handleInit handles the 'init' command.
func handleInit(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		if err := deps.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to create migration tables: %w", err)
		}
		deps.Logger.Info("Migration tables ready")
		return nil
	}
}

// handleMigrate handles the 'migrate' command.
func handleMigrate(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		group, err := withLock(ctx, deps, func() (*migrate.MigrationGroup, error) {
			return deps.Migrator.Migrate(ctx)
		})
		if err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}

		if group.IsZero() {
			deps.Logger.Info("Schema is up to date")
			return nil
		}

		for _, m := range group.Migrations {
			deps.Logger.Info("Applied migration", zap.String("name", m.Name), zap.Int64("group", group.ID))
		}
		return nil
	}
}

// handleRollback handles the 'rollback' command.
func handleRollback(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		group, err := withLock(ctx, deps, func() (*migrate.MigrationGroup, error) {
			return deps.Migrator.Rollback(ctx)
		})
		if err != nil {
			return fmt.Errorf("failed to roll back: %w", err)
		}

		if group.IsZero() {
			deps.Logger.Info("Nothing to roll back")
			return nil
		}

		for _, m := range group.Migrations {
			deps.Logger.Info("Reverted migration", zap.String("name", m.Name), zap.Int64("group", group.ID))
		}
		return nil
	}
}

// handleStatus handles the 'status' command.
func handleStatus(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		if err := deps.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to create migration tables: %w", err)
		}

		ms, err := deps.Migrator.MigrationsWithStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}

		WriteMigrationStatus(os.Stdout, ms)
		return nil
	}
}

// WriteMigrationStatus prints one line per migration followed by a summary.
func WriteMigrationStatus(w io.Writer, ms migrate.MigrationSlice) {
	for _, m := range ms {
		if m.IsApplied() {
			fmt.Fprintf(w, "applied  group %-3d %s\n", m.GroupID, m.Name)
		} else {
			fmt.Fprintf(w, "pending            %s\n", m.Name)
		}
	}

	pending := len(ms.Unapplied())
	fmt.Fprintf(w, "%d applied, %d pending\n", len(ms)-pending, pending)
}

// handleCreate handles the 'create' command.
func handleCreate(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		name := c.Args().First()
		if c.Args().Len() != 1 || name == "" {
			return ErrNameRequired
		}
		if !migrationNamePattern.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidMigrationName, name)
		}

		mf, err := deps.Migrator.CreateGoMigration(ctx, name, migrate.WithPackageName("migrations"))
		if err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}

		deps.Logger.Info("Created migration file", zap.String("path", mf.Path))
		fmt.Printf("Register %s in internal/database/migrations and rebuild\n", mf.Name)
		return nil
	}
}
