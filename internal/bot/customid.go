package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/proofboard/proofboard/internal/bot/constants"
)

// ErrMalformedCustomID is returned for component IDs this bot did not create.
var ErrMalformedCustomID = errors.New("malformed custom ID")

// reviewCustomID identifies a review button for one submission.
func reviewCustomID(action string, submissionID uuid.UUID) string {
	return strings.Join([]string{constants.ReviewCustomIDPrefix, action, submissionID.String()}, constants.CustomIDSeparator)
}

// parseReviewCustomID returns the action and submission of a review button.
func parseReviewCustomID(customID string) (string, uuid.UUID, error) {
	parts := strings.Split(customID, constants.CustomIDSeparator)
	if len(parts) != 3 || parts[0] != constants.ReviewCustomIDPrefix {
		return "", uuid.Nil, fmt.Errorf("%w: %q", ErrMalformedCustomID, customID)
	}

	switch parts[1] {
	case constants.ReviewPreviousAction, constants.ReviewNextAction,
		constants.ReviewApproveAction, constants.ReviewRejectAction:
	default:
		return "", uuid.Nil, fmt.Errorf("%w: unknown review action %q", ErrMalformedCustomID, parts[1])
	}

	id, err := uuid.Parse(parts[2])
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("%w: %w", ErrMalformedCustomID, err)
	}

	return parts[1], id, nil
}

// pageCustomID identifies a leaderboard navigation button.
func pageCustomID(guildID snowflake.ID, page int) string {
	return strings.Join([]string{constants.PageCustomIDPrefix, guildID.String(), strconv.Itoa(page)}, constants.CustomIDSeparator)
}

// parsePageCustomID returns the guild and target page of a navigation button.
func parsePageCustomID(customID string) (snowflake.ID, int, error) {
	parts := strings.Split(customID, constants.CustomIDSeparator)
	if len(parts) != 3 || parts[0] != constants.PageCustomIDPrefix {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedCustomID, customID)
	}

	guildID, err := snowflake.Parse(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrMalformedCustomID, err)
	}

	page, err := strconv.Atoi(parts[2])
	if err != nil || page < 0 {
		return 0, 0, fmt.Errorf("%w: bad page %q", ErrMalformedCustomID, parts[2])
	}

	return guildID, page, nil
}

// customIDPrefix returns the routing prefix of a component ID.
func customIDPrefix(customID string) string {
	if customID == constants.GuildSelectMenuCustomID {
		return customID
	}

	prefix, _, _ := strings.Cut(customID, constants.CustomIDSeparator)

	return prefix
}
