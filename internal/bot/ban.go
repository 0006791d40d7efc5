package bot

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/bot/constants"
	"go.uber.org/zap"
)

// handleBanUser bans a member after telling them why. It requires the platform's
// ban permission rather than a leaderboard grant.
func (b *Bot) handleBanUser(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	guildID, err := interactionGuild(event)
	if err != nil {
		return nil, err
	}

	member := event.Member()
	if member == nil || !member.Permissions.Has(discord.PermissionBanMembers) {
		return nil, ErrMissingPermission
	}

	data := event.SlashCommandInteractionData()
	target := data.User(constants.UserOptionName)

	reason, ok := data.OptString(constants.ReasonOptionName)
	if !ok || reason == "" {
		reason = constants.DefaultBanReason
	}

	guildName := guildID.String()
	if guild, ok := b.guilds.lookup(guildID); ok {
		guildName = guild.Name
	}

	var notice string

	// The DM must go out first; once banned the user shares no guild with the bot
	err = b.messenger.SendDirectMessage(ctx, target.ID,
		fmt.Sprintf("You have been banned from %s for: %s", guildName, reason))
	if err != nil {
		notice = "Couldn't send DM to the user. Proceeding with ban.\n"

		b.logger.Warn("Failed to notify banned user",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Uint64("userID", uint64(target.ID)),
			zap.Error(err))
	}

	result, err := event.Client().Rest().BulkBan(guildID, discord.BulkBan{
		UserIDs: []snowflake.ID{target.ID},
	}, rest.WithReason(reason), rest.WithCtx(ctx))
	if err != nil {
		if isForbidden(err) {
			return nil, fmt.Errorf("%w: %w", ErrMissingPermission, err)
		}

		return nil, fmt.Errorf("failed to ban user: %w", err)
	}

	if len(result.BannedUsers) == 0 {
		return discord.NewMessageUpdateBuilder().
			SetContent(notice + fmt.Sprintf("❌ Could not ban %s.", target.Mention())), nil
	}

	b.logger.Info("User banned",
		zap.Uint64("guildID", uint64(guildID)),
		zap.Uint64("userID", uint64(target.ID)),
		zap.Uint64("moderatorID", uint64(event.User().ID)),
		zap.String("reason", reason))

	return discord.NewMessageUpdateBuilder().
		SetContent(notice + fmt.Sprintf("🔨 %s has been banned.", target.Mention())), nil
}
