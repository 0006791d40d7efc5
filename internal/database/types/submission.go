package types

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Submission is a pending score claim awaiting review.
// At most one exists per (user, guild) pair.
type Submission struct {
	bun.BaseModel `bun:"table:submissions,alias:s"`

	ID        uuid.UUID    `bun:"id,pk,type:uuid"`
	UserID    snowflake.ID `bun:"user_id,notnull,unique:submissions_user_guild"`
	GuildID   snowflake.ID `bun:"guild_id,notnull,unique:submissions_user_guild"`
	Username  string       `bun:"username,notnull"`
	Score     int64        `bun:"score,notnull"`
	Image1URL string       `bun:"image1_url,notnull"`
	Image2URL string       `bun:"image2_url,notnull"`
	CreatedAt time.Time    `bun:"created_at,notnull"`
}

// Images returns both evidence images in submission order.
func (s *Submission) Images() []string {
	return []string{s.Image1URL, s.Image2URL}
}
