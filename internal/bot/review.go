package bot

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/proofboard/proofboard/internal/bot/constants"
	submissionEvents "github.com/proofboard/proofboard/internal/events"
	"github.com/proofboard/proofboard/internal/review"
)

// handleReview sends the reviewer one direct message per pending submission.
func (b *Bot) handleReview(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	guildID, err := interactionGuild(event)
	if err != nil {
		return nil, err
	}

	reviewerID := event.User().ID

	sessions, err := b.review.Open(ctx, guildID, reviewerID)
	if err != nil {
		return nil, err
	}

	for i, session := range sessions {
		if err := b.sessions.Save(ctx, session); err != nil {
			return nil, err
		}

		err := b.messenger.SendEmbed(ctx, reviewerID, buildReviewEmbed(session), reviewButtons(session)...)
		if err != nil {
			// Sessions that never reached the reviewer are discarded
			for _, unsent := range sessions[i:] {
				b.sessions.Delete(ctx, unsent)
			}

			return nil, err
		}
	}

	return discord.NewMessageUpdateBuilder().
		SetContent(fmt.Sprintf("📬 Sent %d pending submission(s) to your DMs.", len(sessions))), nil
}

// handleReviewButton navigates or decides the session behind a review message.
func (b *Bot) handleReviewButton(
	ctx context.Context, event *events.ComponentInteractionCreate,
) (*discord.MessageUpdateBuilder, error) {
	action, submissionID, err := parseReviewCustomID(event.Data.CustomID())
	if err != nil {
		return nil, err
	}

	session, err := b.sessions.Load(ctx, event.User().ID, submissionID)
	if err != nil {
		return nil, err
	}

	switch action {
	case constants.ReviewPreviousAction, constants.ReviewNextAction:
		if action == constants.ReviewPreviousAction {
			_, err = session.ShowPrevious()
		} else {
			_, err = session.ShowNext()
		}

		if err != nil {
			return nil, err
		}

		if err := b.sessions.Save(ctx, session); err != nil {
			return nil, err
		}

		return discord.NewMessageUpdateBuilder().
			SetEmbeds(buildReviewEmbed(session)).
			SetContainerComponents(discord.NewActionRow(reviewButtons(session)...)), nil
	default:
		if action == constants.ReviewApproveAction {
			err = b.review.Approve(ctx, session)
		} else {
			err = b.review.Reject(ctx, session)
		}

		if session.Closed() {
			b.sessions.Delete(ctx, session)
		}

		if err != nil {
			return nil, err
		}

		return discord.NewMessageUpdateBuilder().
			SetContent(decisionMessage(session.Decision)).
			SetEmbeds(buildReviewEmbed(session)).
			ClearContainerComponents(), nil
	}
}

// buildReviewEmbed shows the submission with its current proof image.
func buildReviewEmbed(session *review.Session) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("📝 Submission Review").
		SetDescription(fmt.Sprintf(
			"**Username**: `%s`\n**User ID**: `%s`\n**Score**: `%d`\n**Submitted at**: <t:%d:F>",
			session.Username, session.SubmitterID, session.Score, session.SubmittedAt.Unix(),
		)).
		SetImage(session.CurrentImage()).
		SetFooterText(fmt.Sprintf("Image %d/%d • Submission ID: %s",
			session.Index+1, len(session.Images), session.SubmissionID)).
		SetColor(constants.ReviewEmbedColor).
		Build()
}

// reviewButtons are the navigation and decision buttons of a session.
func reviewButtons(session *review.Session) []discord.InteractiveComponent {
	return []discord.InteractiveComponent{
		discord.NewSecondaryButton("◀️ Previous", reviewCustomID(constants.ReviewPreviousAction, session.SubmissionID)),
		discord.NewSecondaryButton("Next ▶️", reviewCustomID(constants.ReviewNextAction, session.SubmissionID)),
		discord.NewSuccessButton("Approve", reviewCustomID(constants.ReviewApproveAction, session.SubmissionID)),
		discord.NewDangerButton("Reject", reviewCustomID(constants.ReviewRejectAction, session.SubmissionID)),
	}
}

func decisionMessage(decision submissionEvents.Decision) string {
	if decision == submissionEvents.DecisionApproved {
		return "✅ Submission approved."
	}

	return "❌ Submission rejected."
}
