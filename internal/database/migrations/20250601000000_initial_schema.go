package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return CreateSchema(ctx, db)
	}, func(ctx context.Context, db *bun.DB) error {
		return DropSchema(ctx, db)
	})
}
