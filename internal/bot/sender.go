package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/bot/constants"
	"github.com/proofboard/proofboard/internal/intake"
	"github.com/proofboard/proofboard/internal/notify"
)

// messenger sends direct messages through the REST API.
type messenger struct {
	rest rest.Rest
}

var (
	_ notify.Sender = (*messenger)(nil)
	_ Prompter      = (*messenger)(nil)
)

// SendDirectMessage opens a DM channel with userID and posts content.
func (m *messenger) SendDirectMessage(ctx context.Context, userID snowflake.ID, content string) error {
	return m.send(ctx, userID, discord.NewMessageCreateBuilder().SetContent(content).Build())
}

// SendGuildMenu asks userID to pick one of options.
func (m *messenger) SendGuildMenu(ctx context.Context, userID snowflake.ID, options []intake.GuildOption) error {
	return m.send(ctx, userID, discord.NewMessageCreateBuilder().
		SetContent(intake.AwaitingGuild.Prompt()).
		AddActionRow(guildSelectMenu(options)).
		Build())
}

// SendEmbed posts an embed with components to userID.
func (m *messenger) SendEmbed(
	ctx context.Context, userID snowflake.ID, embed discord.Embed, components ...discord.InteractiveComponent,
) error {
	return m.send(ctx, userID, discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		AddActionRow(components...).
		Build())
}

func (m *messenger) send(ctx context.Context, userID snowflake.ID, message discord.MessageCreate) error {
	channel, err := m.rest.CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w (userID=%s)", err, userID)
	}

	if _, err := m.rest.CreateMessage(channel.ID(), message, rest.WithCtx(ctx)); err != nil {
		if isForbidden(err) {
			return fmt.Errorf("%w: %w (userID=%s)", ErrDirectMessagesOff, err, userID)
		}

		return fmt.Errorf("failed to send DM: %w (userID=%s)", err, userID)
	}

	return nil
}

// guildSelectMenu lists options, keeping the first entries that fit in one menu.
func guildSelectMenu(options []intake.GuildOption) discord.StringSelectMenuComponent {
	menuOptions := make([]discord.StringSelectMenuOption, 0, min(len(options), constants.MaxSelectMenuOptions))
	for _, guild := range options[:min(len(options), constants.MaxSelectMenuOptions)] {
		menuOptions = append(menuOptions, discord.NewStringSelectMenuOption(guildLabel(guild), guild.ID.String()))
	}

	return discord.NewStringSelectMenu(constants.GuildSelectMenuCustomID, "Choose a server", menuOptions...)
}

// guildLabel fits the guild name into a select option label.
func guildLabel(guild intake.GuildOption) string {
	const maxLabel = 100

	name := []rune(guild.Name)
	if len(name) == 0 {
		return guild.ID.String()
	}

	if len(name) > maxLabel {
		return string(name[:maxLabel-1]) + "…"
	}

	return string(name)
}

// isForbidden reports whether the REST API refused the request.
func isForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// isNotFound reports whether the REST API could not find the resource.
func isNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func hasStatus(err error, status int) bool {
	var restErr *rest.Error
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return false
	}

	return restErr.Response.StatusCode == status
}
