package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/proofboard/proofboard/internal/export"
	"github.com/proofboard/proofboard/internal/intake"
	"github.com/proofboard/proofboard/internal/leaderboard"
	"github.com/proofboard/proofboard/internal/review"
	"go.uber.org/zap"
)

var (
	ErrDMOnly             = errors.New("command is only available in direct messages")
	ErrGuildOnly          = errors.New("command is only available in servers")
	ErrMissingPermission  = errors.New("missing platform permission")
	ErrChannelUnavailable = errors.New("leaderboard channel unavailable")
	ErrDialogueActive     = errors.New("a submission dialogue is already running")
	ErrDirectMessagesOff  = errors.New("direct messages are closed")
	ErrUnknownCommand     = errors.New("unknown command")
)

const internalErrorMessage = "⚠️ Something went wrong. Please try again later."

// userMessage turns a handler error into the text shown to the member.
// Invalid input, missing authorization and already handled work always get distinct replies.
func userMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrInvalidLimit):
		return "❌ Limit must be at least 1."
	case errors.Is(err, export.ErrUnsupportedFormat):
		formats := make([]string, 0, len(export.Formats))
		for _, f := range export.Formats {
			formats = append(formats, "`"+string(f)+"`")
		}

		return "❌ Unsupported export format. Use one of: " + strings.Join(formats, ", ") + "."
	case errors.Is(err, types.ErrInvalidArgument):
		return "❌ That input is not valid."
	case errors.Is(err, types.ErrUnauthorized):
		return "⛔ You're not authorized."
	case errors.Is(err, ErrMissingPermission):
		return "⛔ You don't have permission to run this command."
	case errors.Is(err, types.ErrSubmissionNotFound),
		errors.Is(err, review.ErrSessionClosed),
		errors.Is(err, review.ErrSessionNotFound):
		return "⚠️ This submission has already been handled."
	case errors.Is(err, types.ErrDuplicateSubmission):
		return "❌ You've already submitted for this guild."
	case errors.Is(err, types.ErrLastOwner):
		return "❌ A server must keep at least one owner."
	case errors.Is(err, leaderboard.ErrNoChannel):
		return "⚙️ No leaderboard channel is set. Use `/setchannel` first."
	case errors.Is(err, leaderboard.ErrNoData), errors.Is(err, export.ErrNoData):
		return "📭 No leaderboard data found."
	case errors.Is(err, review.ErrNothingToReview):
		return "✅ No pending submissions found."
	case errors.Is(err, intake.ErrNoEligibleGuild):
		return noEligibleGuildMessage
	case errors.Is(err, ErrDMOnly):
		return "❌ Please use this command in DMs."
	case errors.Is(err, ErrGuildOnly):
		return "❌ Please use this command in a server."
	case errors.Is(err, ErrChannelUnavailable):
		return "❌ Could not find the configured leaderboard channel."
	case errors.Is(err, ErrDialogueActive):
		return fmt.Sprintf("⏳ You already have a submission in progress. Reply `%s` to stop it.", intake.CancelKeyword)
	case errors.Is(err, ErrDirectMessagesOff):
		return "❌ I can't DM you the submissions. Please enable DMs from server members."
	case errors.Is(err, ErrUnknownCommand), errors.Is(err, ErrMalformedCustomID):
		return "This command is not available."
	default:
		return internalErrorMessage
	}
}

// expected reports whether err is a normal outcome that needs no error log.
func expected(err error) bool {
	return userMessage(err) != internalErrorMessage
}

// respondWithError replaces the deferred response with the message for err.
func (b *Bot) respondWithError(event interactionEvent, err error) {
	if !expected(err) {
		b.logger.Error("Interaction failed",
			zap.Uint64("userID", uint64(event.User().ID)),
			zap.Error(err))
	}

	b.respond(event, discord.NewMessageUpdateBuilder().
		SetContent(timestamped(userMessage(err))).
		ClearEmbeds().
		ClearContainerComponents())
}

// respond replaces the deferred response.
func (b *Bot) respond(event interactionEvent, builder *discord.MessageUpdateBuilder) {
	_, err := event.Client().Rest().UpdateInteractionResponse(event.ApplicationID(), event.Token(), builder.Build())
	if err != nil {
		b.logger.Error("Failed to update interaction response", zap.Error(err))
	}
}

// timestamped appends a relative timestamp so repeated replies are distinguishable.
func timestamped(content string) string {
	return fmt.Sprintf("%s\n-# <t:%d:R>", content, time.Now().Unix())
}
