package migrations

import (
	"context"
	"fmt"

	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.Submission)(nil),
			(*types.LeaderboardEntry)(nil),
			(*types.GuildOwner)(nil),
			(*types.GuildReviewer)(nil),
			(*types.GuildSetting)(nil),
		}

		for _, model := range models {
			if _, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for %T: %w", model, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.GuildSetting)(nil),
			(*types.GuildReviewer)(nil),
			(*types.GuildOwner)(nil),
			(*types.LeaderboardEntry)(nil),
			(*types.Submission)(nil),
		}

		for _, model := range models {
			if _, err := db.NewDropTable().
				Model(model).
				IfExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop table for %T: %w", model, err)
			}
		}

		return nil
	})
}
