package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			// Leaderboard ranking per guild
			`CREATE INDEX IF NOT EXISTS leaderboard_guild_score_idx
			 ON leaderboard (guild_id, score DESC, id ASC)`,

			// Pending queue per guild in arrival order
			`CREATE INDEX IF NOT EXISTS submissions_guild_created_idx
			 ON submissions (guild_id, created_at, id)`,

			// Registry lookups by user
			`CREATE INDEX IF NOT EXISTS owners_user_idx ON owners (user_id)`,
			`CREATE INDEX IF NOT EXISTS reviewers_user_idx ON reviewers (user_id)`,
		}

		for _, index := range indexes {
			if _, err := db.ExecContext(ctx, index); err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"leaderboard_guild_score_idx",
			"submissions_guild_created_idx",
			"owners_user_idx",
			"reviewers_user_idx",
		}

		for _, index := range indexes {
			if _, err := db.ExecContext(ctx, "DROP INDEX IF EXISTS "+index); err != nil {
				return fmt.Errorf("failed to drop index %s: %w", index, err)
			}
		}

		return nil
	})
}
