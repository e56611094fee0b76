package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
)

// The gameshow template row must exist before any gameshow can be created.
//
//go:embed sql/seed_gameshow_template.sql
var seedGameshowTemplateSQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, seedGameshowTemplateSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DELETE FROM game_templates WHERE slug = 'gameshow-quiz'`)
			return err
		},
	)
}
