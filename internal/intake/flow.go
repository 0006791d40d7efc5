// Package intake runs the direct message dialogue that turns a member's answers into a pending submission.
package intake

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/proofboard/proofboard/internal/events"
	"github.com/proofboard/proofboard/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultPromptTimeout bounds how long each question waits for an answer.
	DefaultPromptTimeout = 120 * time.Second

	// MaxUsernameLength is the longest accepted username in runes.
	MaxUsernameLength = 64

	// CancelKeyword ends the dialogue when sent as an answer.
	CancelKeyword = "cancel"
)

var (
	ErrNoEligibleGuild   = errors.New("no eligible guild")
	ErrTimedOut          = errors.New("timed out waiting for a reply")
	ErrCancelled         = errors.New("submission cancelled")
	ErrInvalidGuild      = fmt.Errorf("%w: guild was not one of the options", types.ErrInvalidArgument)
	ErrInvalidUsername   = fmt.Errorf("%w: username must be 1 to %d characters", types.ErrInvalidArgument, MaxUsernameLength)
	ErrInvalidScore      = fmt.Errorf("%w: score must be a whole number", types.ErrInvalidArgument)
	ErrMissingAttachment = fmt.Errorf("%w: an image attachment is required", types.ErrInvalidArgument)
)

// GuildOption is a guild the submitter may submit to.
type GuildOption struct {
	ID      snowflake.ID
	Name    string
	OwnerID snowflake.ID
}

// Reply is one answer from the submitter.
type Reply struct {
	Content     string
	Attachments []string
}

// Conversation is the submitter's side of the dialogue.
// Both methods must return ctx.Err() once ctx is done.
type Conversation interface {
	ChooseGuild(ctx context.Context, options []GuildOption) (snowflake.ID, error)
	Ask(ctx context.Context, state State) (Reply, error)
}

// Registry bootstraps the first owner of a guild.
type Registry interface {
	BootstrapOwner(ctx context.Context, guildID, candidate snowflake.ID) (bool, error)
}

// Store persists a completed submission.
type Store interface {
	Create(ctx context.Context, sub *types.Submission) (uuid.UUID, error)
}

// Publisher announces stored submissions.
type Publisher interface {
	PublishReceived(ctx context.Context, event events.SubmissionReceived) error
}

// Result is where a dialogue ended.
type Result struct {
	State        State
	GuildID      snowflake.ID
	SubmissionID uuid.UUID
}

// Flow runs submission dialogues. It is safe for concurrent use by many submitters.
type Flow struct {
	registry  Registry
	store     Store
	publisher Publisher
	metrics   *metrics.Metrics
	timeout   time.Duration
	logger    *zap.Logger
}

// NewFlow creates a Flow. A non-positive timeout selects DefaultPromptTimeout.
func NewFlow(
	registry Registry, store Store, publisher Publisher, m *metrics.Metrics, timeout time.Duration, logger *zap.Logger,
) *Flow {
	if timeout <= 0 {
		timeout = DefaultPromptTimeout
	}

	return &Flow{
		registry:  registry,
		store:     store,
		publisher: publisher,
		metrics:   m,
		timeout:   timeout,
		logger:    logger.Named("intake"),
	}
}

// Run walks the submitter through every step and stores the submission at the end.
// Nothing is written unless all answers were collected. The returned error is nil
// only for the Submitted state.
func (f *Flow) Run(
	ctx context.Context, submitterID snowflake.ID, guilds []GuildOption, conv Conversation,
) (*Result, error) {
	result := &Result{}

	err := f.run(ctx, submitterID, guilds, conv, result)
	result.State = outcome(err)

	f.metrics.IntakeOutcomes.WithLabelValues(result.State.String()).Inc()
	f.logger.Debug("Submission dialogue finished",
		zap.Uint64("userID", uint64(submitterID)),
		zap.Uint64("guildID", uint64(result.GuildID)),
		zap.String("state", result.State.String()),
		zap.Error(err))

	return result, err
}

func (f *Flow) run(
	ctx context.Context, submitterID snowflake.ID, guilds []GuildOption, conv Conversation, result *Result,
) error {
	if len(guilds) == 0 {
		return ErrNoEligibleGuild
	}

	guild, err := f.chooseGuild(ctx, guilds, conv)
	if err != nil {
		return err
	}
	result.GuildID = guild.ID

	if guild.OwnerID != 0 {
		if _, err := f.registry.BootstrapOwner(ctx, guild.ID, guild.OwnerID); err != nil {
			return fmt.Errorf("failed to bootstrap owner: %w", err)
		}
	}

	reply, err := f.ask(ctx, conv, AwaitingUsername)
	if err != nil {
		return err
	}

	username, err := parseUsername(reply.Content)
	if err != nil {
		return err
	}

	if reply, err = f.ask(ctx, conv, AwaitingScore); err != nil {
		return err
	}

	score, err := parseScore(reply.Content)
	if err != nil {
		return err
	}

	images := make([]string, 0, 2)
	for _, state := range []State{AwaitingImage1, AwaitingImage2} {
		if reply, err = f.ask(ctx, conv, state); err != nil {
			return err
		}

		if len(reply.Attachments) == 0 {
			return fmt.Errorf("%w (%s)", ErrMissingAttachment, state)
		}

		images = append(images, reply.Attachments[0])
	}

	sub := &types.Submission{
		UserID:    submitterID,
		GuildID:   guild.ID,
		Username:  username,
		Score:     score,
		Image1URL: images[0],
		Image2URL: images[1],
	}

	id, err := f.store.Create(ctx, sub)
	if err != nil {
		return err
	}
	result.SubmissionID = id
	f.metrics.SubmissionsCreated.Inc()

	// Reviewers are told asynchronously; a failure here must not undo the submission
	if err := f.publisher.PublishReceived(ctx, events.SubmissionReceived{
		SubmissionID: id,
		GuildID:      guild.ID,
		SubmitterID:  submitterID,
		Username:     username,
		Score:        score,
		CreatedAt:    sub.CreatedAt,
	}); err != nil {
		f.logger.Warn("Failed to publish submission", zap.String("submissionID", id.String()), zap.Error(err))
	}

	return nil
}

func (f *Flow) chooseGuild(ctx context.Context, guilds []GuildOption, conv Conversation) (GuildOption, error) {
	stepCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	guildID, err := conv.ChooseGuild(stepCtx, guilds)
	if err != nil {
		return GuildOption{}, stepError(err, AwaitingGuild)
	}

	i := slices.IndexFunc(guilds, func(g GuildOption) bool { return g.ID == guildID })
	if i < 0 {
		return GuildOption{}, fmt.Errorf("%w (guildID=%s)", ErrInvalidGuild, guildID)
	}

	return guilds[i], nil
}

// ask waits for a single answer under its own deadline.
func (f *Flow) ask(ctx context.Context, conv Conversation, state State) (Reply, error) {
	stepCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	reply, err := conv.Ask(stepCtx, state)
	if err != nil {
		return Reply{}, stepError(err, state)
	}

	if strings.EqualFold(strings.TrimSpace(reply.Content), CancelKeyword) {
		return Reply{}, ErrCancelled
	}

	return reply, nil
}

func stepError(err error, state State) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w (%s)", ErrTimedOut, state)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w (%s)", ErrCancelled, state)
	default:
		return err
	}
}

func parseUsername(content string) (string, error) {
	username := norm.NFC.String(strings.TrimSpace(content))
	if username == "" || utf8.RuneCountInString(username) > MaxUsernameLength {
		return "", ErrInvalidUsername
	}

	return username, nil
}

func parseScore(content string) (int64, error) {
	score, err := strconv.ParseInt(strings.TrimSpace(content), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidScore, content)
	}

	return score, nil
}

// outcome maps the error that ended a dialogue to its terminal state.
func outcome(err error) State {
	switch {
	case err == nil:
		return Submitted
	case errors.Is(err, types.ErrDuplicateSubmission):
		return Duplicate
	case errors.Is(err, ErrTimedOut):
		return TimedOut
	case errors.Is(err, ErrCancelled):
		return Cancelled
	case errors.Is(err, ErrNoEligibleGuild):
		return NoEligibleGuild
	case errors.Is(err, types.ErrInvalidArgument):
		return InvalidInput
	default:
		return Failed
	}
}
