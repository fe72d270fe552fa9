package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every registered schema migration in order.
var Migrations = migrate.NewMigrations()
