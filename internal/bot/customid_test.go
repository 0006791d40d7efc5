package bot

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/proofboard/proofboard/internal/bot/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCustomID(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	for _, action := range []string{
		constants.ReviewPreviousAction,
		constants.ReviewNextAction,
		constants.ReviewApproveAction,
		constants.ReviewRejectAction,
	} {
		customID := reviewCustomID(action, id)
		assert.LessOrEqual(t, len(customID), 100)
		assert.Equal(t, constants.ReviewCustomIDPrefix, customIDPrefix(customID))

		gotAction, gotID, err := parseReviewCustomID(customID)
		require.NoError(t, err)
		assert.Equal(t, action, gotAction)
		assert.Equal(t, id, gotID)
	}
}

func TestParseReviewCustomIDRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"review",
		"review:approve",
		"review:approve:not-a-uuid",
		"review:delete:" + uuid.NewString(),
		"lb:approve:" + uuid.NewString(),
	}

	for _, customID := range tests {
		_, _, err := parseReviewCustomID(customID)
		require.ErrorIs(t, err, ErrMalformedCustomID, customID)
	}
}

func TestPageCustomID(t *testing.T) {
	t.Parallel()

	guildID := snowflake.ID(123456789012345678)

	customID := pageCustomID(guildID, 3)
	assert.Equal(t, "lb:123456789012345678:3", customID)
	assert.Equal(t, constants.PageCustomIDPrefix, customIDPrefix(customID))

	gotGuild, gotPage, err := parsePageCustomID(customID)
	require.NoError(t, err)
	assert.Equal(t, guildID, gotGuild)
	assert.Equal(t, 3, gotPage)

	for _, bad := range []string{"lb:abc:1", "lb:1:-1", "lb:1:x", "lb:1", "review:1:1"} {
		_, _, err := parsePageCustomID(bad)
		require.ErrorIs(t, err, ErrMalformedCustomID, bad)
	}
}

func TestCustomIDPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, constants.GuildSelectMenuCustomID, customIDPrefix(constants.GuildSelectMenuCustomID))
	assert.Equal(t, "intake", customIDPrefix("intake:other"))
	assert.Equal(t, "plain", customIDPrefix("plain"))
}
