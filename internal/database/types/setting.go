package types

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// DefaultResultLimit is the number of leaderboard rows posted when a guild has not chosen one.
const DefaultResultLimit = 10

// GuildSetting stores per-guild leaderboard preferences.
type GuildSetting struct {
	bun.BaseModel `bun:"table:settings,alias:gs"`

	GuildID              snowflake.ID `bun:"guild_id,pk"`
	LeaderboardChannelID snowflake.ID `bun:"leaderboard_channel_id,nullzero"`
	ResultLimit          int          `bun:"result_limit,notnull,default:10"`
}

// DefaultGuildSetting returns the settings used for guilds without a stored row.
func DefaultGuildSetting(guildID snowflake.ID) *GuildSetting {
	return &GuildSetting{
		GuildID:     guildID,
		ResultLimit: DefaultResultLimit,
	}
}

// HasLeaderboardChannel reports whether a posting channel has been configured.
func (s *GuildSetting) HasLeaderboardChannel() bool {
	return s.LeaderboardChannelID != 0
}
