package bot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/proofboard/proofboard/internal/export"
	"github.com/proofboard/proofboard/internal/intake"
	"github.com/proofboard/proofboard/internal/leaderboard"
	"github.com/proofboard/proofboard/internal/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid limit", types.ErrInvalidLimit, "❌ Limit must be at least 1."},
		{"invalid score", intake.ErrInvalidScore, "❌ That input is not valid."},
		{"unauthorized", fmt.Errorf("%w (guildID=1)", types.ErrUnauthorized), "⛔ You're not authorized."},
		{"missing permission", ErrMissingPermission, "⛔ You don't have permission to run this command."},
		{"already decided", types.ErrSubmissionNotFound, "⚠️ This submission has already been handled."},
		{"session closed", review.ErrSessionClosed, "⚠️ This submission has already been handled."},
		{"session expired", review.ErrSessionNotFound, "⚠️ This submission has already been handled."},
		{"duplicate", types.ErrDuplicateSubmission, "❌ You've already submitted for this guild."},
		{"last owner", types.ErrLastOwner, "❌ A server must keep at least one owner."},
		{"no channel", leaderboard.ErrNoChannel, "⚙️ No leaderboard channel is set. Use `/setchannel` first."},
		{"no rows", leaderboard.ErrNoData, "📭 No leaderboard data found."},
		{"no export rows", export.ErrNoData, "📭 No leaderboard data found."},
		{"nothing to review", review.ErrNothingToReview, "✅ No pending submissions found."},
		{"dm only", ErrDMOnly, "❌ Please use this command in DMs."},
		{"channel unavailable", ErrChannelUnavailable, "❌ Could not find the configured leaderboard channel."},
		{"no eligible guild", intake.ErrNoEligibleGuild, noEligibleGuildMessage},
		{"unknown", errors.New("boom"), internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
}

func TestUserMessageKeepsFailureKindsApart(t *testing.T) {
	t.Parallel()

	invalid := userMessage(types.ErrInvalidLimit)
	unauthorized := userMessage(types.ErrUnauthorized)
	handled := userMessage(types.ErrSubmissionNotFound)

	assert.NotEqual(t, invalid, unauthorized)
	assert.NotEqual(t, unauthorized, handled)
	assert.NotEqual(t, invalid, handled)

	for _, err := range []error{types.ErrInvalidLimit, types.ErrUnauthorized, types.ErrSubmissionNotFound} {
		assert.True(t, expected(err))
	}

	assert.False(t, expected(errors.New("connection reset")))
}

func TestUnsupportedFormatListsFormats(t *testing.T) {
	t.Parallel()

	_, err := export.ParseFormat("pdf")
	require.Error(t, err)

	msg := userMessage(err)
	for _, f := range export.Formats {
		assert.Contains(t, msg, "`"+string(f)+"`")
	}
}

func TestScopeCheck(t *testing.T) {
	t.Parallel()

	guildID := snowflake.ID(42)

	require.NoError(t, scopeGuild.check(&guildID))
	require.ErrorIs(t, scopeGuild.check(nil), ErrGuildOnly)
	require.NoError(t, scopeDM.check(nil))
	require.ErrorIs(t, scopeDM.check(&guildID), ErrDMOnly)
}

func TestOutcomeMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "✅ Your submission was received and is pending review!", outcomeMessage(intake.Submitted))
	assert.Equal(t, userMessage(types.ErrDuplicateSubmission), outcomeMessage(intake.Duplicate))
	assert.Equal(t, internalErrorMessage, outcomeMessage(intake.Failed))

	seen := make(map[string]intake.State)
	for _, state := range []intake.State{
		intake.Submitted, intake.Duplicate, intake.TimedOut,
		intake.Cancelled, intake.InvalidInput, intake.NoEligibleGuild,
	} {
		msg := outcomeMessage(state)
		_, dup := seen[msg]
		assert.False(t, dup, "state %s shares a message", state)
		seen[msg] = state
	}
}
