package types

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// LeaderboardEntry is an approved score. Entries are only ever appended.
type LeaderboardEntry struct {
	bun.BaseModel `bun:"table:leaderboard,alias:l"`

	ID          int64        `bun:"id,pk,autoincrement"`
	UserID      snowflake.ID `bun:"user_id,notnull"`
	GuildID     snowflake.ID `bun:"guild_id,notnull"`
	Username    string       `bun:"username,notnull"`
	Score       int64        `bun:"score,notnull"`
	SubmittedAt time.Time    `bun:"submitted_at,notnull"`
	ApprovedAt  time.Time    `bun:"approved_at,notnull"`
}
