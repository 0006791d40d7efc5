package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/database/dbretry"
	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// settingLoadTimeout bounds a shared settings load.
const settingLoadTimeout = 10 * time.Second

// SettingModel handles database operations for guild settings.
type SettingModel struct {
	db     *bun.DB
	logger *zap.Logger
	group  singleflight.Group
}

// NewSetting creates a SettingModel with database access.
func NewSetting(db *bun.DB, logger *zap.Logger) *SettingModel {
	return &SettingModel{
		db:     db,
		logger: logger.Named("db_setting"),
	}
}

// Get retrieves the guild's settings, falling back to defaults when none are stored.
// Concurrent loads for the same guild share one query. The shared query is
// detached from the caller's cancellation so one caller giving up cannot fail
// the others waiting on it.
func (m *SettingModel) Get(ctx context.Context, guildID snowflake.ID) (*types.GuildSetting, error) {
	result, err, _ := m.group.Do(guildID.String(), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settingLoadTimeout)
		defer cancel()

		return dbretry.Operation(loadCtx, func(ctx context.Context) (*types.GuildSetting, error) {
			settings := types.DefaultGuildSetting(guildID)

			err := m.db.NewSelect().
				Model(settings).
				WherePK().
				Scan(ctx)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return types.DefaultGuildSetting(guildID), nil
				}

				return nil, fmt.Errorf("failed to get guild settings: %w (guildID=%s)", err, guildID)
			}

			return settings, nil
		})
	})
	if err != nil {
		return nil, err
	}

	// Callers may mutate their copy
	settings := *result.(*types.GuildSetting)

	return &settings, nil
}

// SetLeaderboardChannel stores the channel leaderboards are posted to.
func (m *SettingModel) SetLeaderboardChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	if channelID == 0 {
		return fmt.Errorf("%w: channel is required", types.ErrInvalidArgument)
	}

	settings := types.DefaultGuildSetting(guildID)
	settings.LeaderboardChannelID = channelID

	return m.upsert(ctx, settings, "leaderboard_channel_id = EXCLUDED.leaderboard_channel_id")
}

// SetResultLimit stores how many entries a posted leaderboard shows.
func (m *SettingModel) SetResultLimit(ctx context.Context, guildID snowflake.ID, limit int) error {
	if limit < 1 {
		return types.ErrInvalidLimit
	}

	settings := types.DefaultGuildSetting(guildID)
	settings.ResultLimit = limit

	return m.upsert(ctx, settings, "result_limit = EXCLUDED.result_limit")
}

// upsert inserts the settings row or updates the given column on conflict.
func (m *SettingModel) upsert(ctx context.Context, settings *types.GuildSetting, set string) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(settings).
			On("CONFLICT (guild_id) DO UPDATE").
			Set(set).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save guild settings: %w (guildID=%s)", err, settings.GuildID)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Updated guild settings",
		zap.Uint64("guildID", uint64(settings.GuildID)),
		zap.String("set", set))

	return nil
}
