package types

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// GuildOwner grants full management rights over a guild's leaderboard.
type GuildOwner struct {
	bun.BaseModel `bun:"table:owners,alias:o"`

	GuildID snowflake.ID `bun:"guild_id,pk"`
	UserID  snowflake.ID `bun:"user_id,pk"`
	AddedAt time.Time    `bun:"added_at,notnull"`
}

// GuildReviewer may review submissions and post or export the leaderboard.
type GuildReviewer struct {
	bun.BaseModel `bun:"table:reviewers,alias:r"`

	GuildID snowflake.ID `bun:"guild_id,pk"`
	UserID  snowflake.ID `bun:"user_id,pk"`
	AddedAt time.Time    `bun:"added_at,notnull"`
}
