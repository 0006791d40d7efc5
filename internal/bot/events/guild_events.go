package events

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/intake"
	"go.uber.org/zap"
)

const bootstrapTimeout = 10 * time.Second

// Bootstrapper grants the first owner of a guild.
type Bootstrapper interface {
	BootstrapOwner(ctx context.Context, guildID, candidate snowflake.ID) (bool, error)
}

// Directory tracks the guilds the bot is connected to.
type Directory interface {
	Put(guild intake.GuildOption)
	Remove(guildID snowflake.ID)
}

// GuildEventHandler manages guild-related events for the bot.
type GuildEventHandler struct {
	registry  Bootstrapper
	directory Directory
	logger    *zap.Logger
}

// NewGuildEventHandler creates a new instance of the guild event handler.
func NewGuildEventHandler(registry Bootstrapper, directory Directory, logger *zap.Logger) *GuildEventHandler {
	return &GuildEventHandler{
		registry:  registry,
		directory: directory,
		logger:    logger.Named("guild_events"),
	}
}

// OnGuildReady handles guilds delivered when the gateway session starts.
func (h *GuildEventHandler) OnGuildReady(event *events.GuildReady) {
	h.Observe(context.Background(), intake.GuildOption{
		ID:      event.Guild.ID,
		Name:    event.Guild.Name,
		OwnerID: event.Guild.OwnerID,
	})
}

// OnGuildJoin handles the event when the bot joins a new guild.
func (h *GuildEventHandler) OnGuildJoin(event *events.GuildJoin) {
	h.logger.Info("Bot joined a new guild",
		zap.Uint64("guildID", uint64(event.Guild.ID)),
		zap.String("guild_name", event.Guild.Name))

	h.Observe(context.Background(), intake.GuildOption{
		ID:      event.Guild.ID,
		Name:    event.Guild.Name,
		OwnerID: event.Guild.OwnerID,
	})
}

// OnGuildLeave forgets a guild the bot was removed from. Its registry rows are kept.
func (h *GuildEventHandler) OnGuildLeave(event *events.GuildLeave) {
	h.directory.Remove(event.GuildID)

	h.logger.Info("Bot left a guild", zap.Uint64("guildID", uint64(event.GuildID)))
}

// Observe records the guild and makes its platform owner the first owner if it has none.
func (h *GuildEventHandler) Observe(ctx context.Context, guild intake.GuildOption) {
	h.directory.Put(guild)

	if guild.OwnerID == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	created, err := h.registry.BootstrapOwner(ctx, guild.ID, guild.OwnerID)
	if err != nil {
		h.logger.Error("Failed to bootstrap guild owner",
			zap.Uint64("guildID", uint64(guild.ID)),
			zap.Error(err))

		return
	}

	if created {
		h.logger.Info("Bootstrapped guild owner",
			zap.Uint64("guildID", uint64(guild.ID)),
			zap.Uint64("userID", uint64(guild.OwnerID)))
	}
}
