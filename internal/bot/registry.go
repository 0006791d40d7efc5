package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/bot/constants"
	"go.uber.org/zap"
)

func (b *Bot) handleAddOwner(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	return b.manageMember(ctx, event, b.registry.AddOwner, "✅ %s added as an owner.")
}

func (b *Bot) handleRemoveOwner(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	return b.manageMember(ctx, event, func(ctx context.Context, guildID, userID snowflake.ID) error {
		_, err := b.registry.RemoveOwnerKeepingOne(ctx, guildID, userID)
		return err
	}, "✅ %s removed from owners.")
}

func (b *Bot) handleAddReviewer(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	return b.manageMember(ctx, event, b.registry.AddReviewer, "✅ %s added as a reviewer.")
}

func (b *Bot) handleRemoveReviewer(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	return b.manageMember(ctx, event, func(ctx context.Context, guildID, userID snowflake.ID) error {
		_, err := b.registry.RemoveReviewer(ctx, guildID, userID)
		return err
	}, "✅ %s removed from reviewers.")
}

// manageMember applies a registry change for the command's user option.
// Only owners may change who is an owner or reviewer.
func (b *Bot) manageMember(
	ctx context.Context,
	event *events.ApplicationCommandInteractionCreate,
	apply func(ctx context.Context, guildID, userID snowflake.ID) error,
	format string,
) (*discord.MessageUpdateBuilder, error) {
	guildID, err := interactionGuild(event)
	if err != nil {
		return nil, err
	}

	if err := b.requireOwner(ctx, guildID, event.User().ID); err != nil {
		return nil, err
	}

	data := event.SlashCommandInteractionData()
	target := data.User(constants.UserOptionName)

	if err := apply(ctx, guildID, target.ID); err != nil {
		return nil, err
	}

	b.logger.Info("Registry updated",
		zap.String("command", data.CommandName()),
		zap.Uint64("guildID", uint64(guildID)),
		zap.Uint64("actorID", uint64(event.User().ID)),
		zap.Uint64("userID", uint64(target.ID)))

	return discord.NewMessageUpdateBuilder().SetContent(fmt.Sprintf(format, target.Mention())), nil
}

// handleListOwners shows the owners and reviewers of the guild.
func (b *Bot) handleListOwners(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	guildID, err := interactionGuild(event)
	if err != nil {
		return nil, err
	}

	owners, err := b.registry.ListOwners(ctx, guildID)
	if err != nil {
		return nil, err
	}

	reviewers, err := b.registry.ListReviewers(ctx, guildID)
	if err != nil {
		return nil, err
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("👑 Leaderboard Staff").
		AddField("Owners", mentionList(owners), false).
		AddField("Reviewers", mentionList(reviewers), false).
		SetColor(constants.DefaultEmbedColor).
		Build()

	return discord.NewMessageUpdateBuilder().AddEmbeds(embed), nil
}

func mentionList(userIDs []snowflake.ID) string {
	if len(userIDs) == 0 {
		return "None"
	}

	mentions := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		mentions = append(mentions, "<@"+id.String()+">")
	}

	return strings.Join(mentions, "\n")
}

// handleSetChannel stores the channel /post writes to.
func (b *Bot) handleSetChannel(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	guildID, err := interactionGuild(event)
	if err != nil {
		return nil, err
	}

	if err := b.requireOwner(ctx, guildID, event.User().ID); err != nil {
		return nil, err
	}

	channel := event.SlashCommandInteractionData().Channel(constants.ChannelOptionName)
	if err := b.settings.SetLeaderboardChannel(ctx, guildID, channel.ID); err != nil {
		return nil, err
	}

	return discord.NewMessageUpdateBuilder().
		SetContent(fmt.Sprintf("📢 Leaderboard channel set to <#%s>", channel.ID)), nil
}

// handleSetLimit stores how many rows /post shows.
func (b *Bot) handleSetLimit(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	guildID, err := interactionGuild(event)
	if err != nil {
		return nil, err
	}

	if err := b.requireOwner(ctx, guildID, event.User().ID); err != nil {
		return nil, err
	}

	limit := event.SlashCommandInteractionData().Int(constants.LimitOptionName)
	if err := b.settings.SetResultLimit(ctx, guildID, limit); err != nil {
		return nil, err
	}

	return discord.NewMessageUpdateBuilder().
		SetContent(fmt.Sprintf("📊 Leaderboard will now show top %d scores.", limit)), nil
}
