package models

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/database/dbretry"
	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// LeaderboardModel handles database operations for approved scores.
type LeaderboardModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewLeaderboard creates a LeaderboardModel with database access.
func NewLeaderboard(db *bun.DB, logger *zap.Logger) *LeaderboardModel {
	return &LeaderboardModel{
		db:     db,
		logger: logger.Named("db_leaderboard"),
	}
}

// TopN returns at most limit entries ordered by score descending.
// Equal scores keep their approval order.
func (m *LeaderboardModel) TopN(ctx context.Context, guildID snowflake.ID, limit int) ([]*types.LeaderboardEntry, error) {
	if limit < 1 {
		return nil, types.ErrInvalidLimit
	}

	return m.list(ctx, guildID, limit)
}

// ExportAll returns every entry of the guild in ranking order.
func (m *LeaderboardModel) ExportAll(ctx context.Context, guildID snowflake.ID) ([]*types.LeaderboardEntry, error) {
	return m.list(ctx, guildID, 0)
}

// Count returns the number of entries recorded for the guild.
func (m *LeaderboardModel) Count(ctx context.Context, guildID snowflake.ID) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().
			Model((*types.LeaderboardEntry)(nil)).
			Where("guild_id = ?", guildID).
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count leaderboard entries: %w (guildID=%s)", err, guildID)
		}

		return count, nil
	})
}

// list loads ranked entries; a zero limit loads all of them.
func (m *LeaderboardModel) list(ctx context.Context, guildID snowflake.ID, limit int) ([]*types.LeaderboardEntry, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.LeaderboardEntry, error) {
		var entries []*types.LeaderboardEntry

		query := m.db.NewSelect().
			Model(&entries).
			Where("guild_id = ?", guildID).
			Order("score DESC", "id ASC")

		if limit > 0 {
			query = query.Limit(limit)
		}

		if err := query.Scan(ctx); err != nil {
			return nil, fmt.Errorf("failed to get leaderboard: %w (guildID=%s)", err, guildID)
		}

		return entries, nil
	})
}

// appendEntry inserts an entry using the caller's transaction.
func (m *LeaderboardModel) appendEntry(ctx context.Context, db bun.IDB, entry *types.LeaderboardEntry) error {
	if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return fmt.Errorf("failed to append leaderboard entry: %w", err)
	}

	return nil
}
