package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/intake"
	"go.uber.org/zap"
)

// handleSubmit starts a submission dialogue in the submitter's direct messages.
// The dialogue outlives the interaction, so it runs on the bot's own context.
func (b *Bot) handleSubmit(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	userID := event.User().ID

	if b.dialogues.running(userID) {
		return nil, ErrDialogueActive
	}

	guilds := b.guilds.eligible(ctx, userID, b.isMember)
	if len(guilds) == 0 {
		return nil, intake.ErrNoEligibleGuild
	}

	conv, ok := b.dialogues.start(userID, b.messenger)
	if !ok {
		return nil, ErrDialogueActive
	}

	b.wg.Add(1)

	go func() {
		defer b.wg.Done()
		defer b.dialogues.finish(userID)

		b.runDialogue(b.ctx, userID, guilds, conv)
	}()

	return discord.NewMessageUpdateBuilder().
		SetContent(fmt.Sprintf("🔹 Starting your submission. Reply `%s` at any time to stop.", intake.CancelKeyword)), nil
}

// runDialogue runs the intake flow and tells the submitter how it ended.
func (b *Bot) runDialogue(ctx context.Context, userID snowflake.ID, guilds []intake.GuildOption, conv *dialogue) {
	result, err := b.intake.Run(ctx, userID, guilds, conv)
	if result.State == intake.Failed {
		b.logger.Error("Submission dialogue failed",
			zap.Uint64("userID", uint64(userID)),
			zap.Error(err))
	}

	// A closed DM channel means the submitter cannot be told either
	if errors.Is(err, ErrDirectMessagesOff) || ctx.Err() != nil {
		return
	}

	if err := b.messenger.SendDirectMessage(ctx, userID, outcomeMessage(result.State)); err != nil {
		b.logger.Warn("Failed to send submission outcome",
			zap.Uint64("userID", uint64(userID)),
			zap.String("state", result.State.String()),
			zap.Error(err))
	}
}

const noEligibleGuildMessage = "❌ You are not a member of any server this bot is in."

// outcomeMessage is the final direct message for a terminal dialogue state.
func outcomeMessage(state intake.State) string {
	switch state {
	case intake.Submitted:
		return "✅ Your submission was received and is pending review!"
	case intake.Duplicate:
		return "❌ You've already submitted for this guild."
	case intake.TimedOut:
		return "⌛ Submission timed out. Use `/submit` to start again."
	case intake.Cancelled:
		return "🛑 Submission cancelled."
	case intake.InvalidInput:
		return "❌ That answer was not valid. Scores must be whole numbers and both proofs must be image attachments. " +
			"Use `/submit` to start again."
	case intake.NoEligibleGuild:
		return noEligibleGuildMessage
	default:
		return internalErrorMessage
	}
}

// handleGuildSelect passes the chosen guild to the submitter's dialogue.
func (b *Bot) handleGuildSelect(
	_ context.Context, event *events.ComponentInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	data, ok := event.Data.(discord.StringSelectMenuInteractionData)
	if !ok || len(data.Values) == 0 {
		return nil, fmt.Errorf("%w: guild selection without a value", ErrMalformedCustomID)
	}

	guildID, err := snowflake.Parse(data.Values[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCustomID, err)
	}

	builder := discord.NewMessageUpdateBuilder().ClearContainerComponents()

	if !b.dialogues.deliverGuild(event.User().ID, guildID) {
		return builder.SetContent("⌛ This selection has expired. Use `/submit` to start again."), nil
	}

	name := guildID.String()
	if guild, ok := b.guilds.lookup(guildID); ok {
		name = guild.Name
	}

	return builder.SetContent(fmt.Sprintf("🔹 Submitting to **%s**.", name)), nil
}
