package bot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/bot/constants"
	"github.com/proofboard/proofboard/internal/export"
	"github.com/proofboard/proofboard/internal/leaderboard"
	"go.uber.org/zap"
)

// handleLeaderboard shows the first page of the guild's leaderboard.
func (b *Bot) handleLeaderboard(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	guildID, err := interactionGuild(event)
	if err != nil {
		return nil, err
	}

	page, err := b.leaderboard.Page(ctx, guildID, 0)
	if err != nil {
		return nil, err
	}

	return buildLeaderboardPage(guildID, page), nil
}

// handlePageButton moves the leaderboard view to another page.
func (b *Bot) handlePageButton(
	ctx context.Context, event *events.ComponentInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	guildID, number, err := parsePageCustomID(event.Data.CustomID())
	if err != nil {
		return nil, err
	}

	page, err := b.leaderboard.Page(ctx, guildID, number)
	if err != nil {
		return nil, err
	}

	return buildLeaderboardPage(guildID, page), nil
}

// buildLeaderboardPage renders one page with navigation buttons.
func buildLeaderboardPage(guildID snowflake.ID, page *leaderboard.Page) *discord.MessageUpdateBuilder {
	embed := discord.NewEmbedBuilder().
		SetTitle("🏆 Leaderboard").
		SetDescription("```\n" + leaderboard.Text(page.Rows) + "\n```").
		SetFooterText(fmt.Sprintf("Page %d/%d", page.Number+1, page.Total)).
		SetColor(constants.LeaderboardEmbedColor).
		Build()

	return discord.NewMessageUpdateBuilder().
		SetEmbeds(embed).
		SetContainerComponents(discord.NewActionRow(
			discord.NewSecondaryButton("◀️", pageCustomID(guildID, max(page.Number-1, 0))).
				WithDisabled(page.Number == 0),
			discord.NewSecondaryButton("▶️", pageCustomID(guildID, page.Number+1)).
				WithDisabled(page.Number+1 >= page.Total),
		))
}

// handlePost writes the top scores to the configured channel.
func (b *Bot) handlePost(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	guildID, err := interactionGuild(event)
	if err != nil {
		return nil, err
	}

	if err := b.requireAuthorized(ctx, guildID, event.User().ID); err != nil {
		return nil, err
	}

	post, err := b.leaderboard.PreparePost(ctx, guildID)
	if err != nil {
		return nil, err
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("🏆 Leaderboard").
		SetColor(constants.LeaderboardEmbedColor)
	for _, row := range post.Rows {
		embed.AddField(fmt.Sprintf("%d. %s", row.Rank, row.Username), fmt.Sprintf("Score: **%d**", row.Score), false)
	}

	_, err = event.Client().Rest().CreateMessage(post.ChannelID,
		discord.NewMessageCreateBuilder().SetEmbeds(embed.Build()).Build(),
		rest.WithCtx(ctx))
	if err != nil {
		if isNotFound(err) || isForbidden(err) {
			return nil, fmt.Errorf("%w: %w (channelID=%s)", ErrChannelUnavailable, err, post.ChannelID)
		}

		return nil, err
	}

	return discord.NewMessageUpdateBuilder().
		SetContent(fmt.Sprintf("✅ Leaderboard posted in <#%s>", post.ChannelID)), nil
}

// handleExport attaches the guild's full history in the requested format.
func (b *Bot) handleExport(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	guildID, err := interactionGuild(event)
	if err != nil {
		return nil, err
	}

	if err := b.requireAuthorized(ctx, guildID, event.User().ID); err != nil {
		return nil, err
	}

	format, err := export.ParseFormat(event.SlashCommandInteractionData().String(constants.FormatOptionName))
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "proofboard-export-")
	if err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			b.logger.Warn("Failed to remove export directory", zap.String("dir", dir), zap.Error(err))
		}
	}()

	path, err := export.New(b.entries, dir, b.logger).ExportGuild(ctx, guildID, format)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}

	b.logger.Info("Leaderboard exported",
		zap.Uint64("guildID", uint64(guildID)),
		zap.String("format", string(format)),
		zap.String("contentType", format.ContentType()),
		zap.Int("bytes", len(data)))

	return discord.NewMessageUpdateBuilder().
		SetContent(fmt.Sprintf("📄 Leaderboard export (%s)", format)).
		AddFiles(discord.NewFile(filepath.Base(path), "", bytes.NewReader(data))), nil
}
