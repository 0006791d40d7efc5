// Package notify turns submission lifecycle events into direct messages.
// Delivery is best-effort: failures are logged and counted, never returned to the flow that raised the event.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/events"
	"github.com/proofboard/proofboard/internal/metrics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrDeliveryFailed wraps every error from a single direct message attempt.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Sender delivers a direct message to a user.
type Sender interface {
	SendDirectMessage(ctx context.Context, userID snowflake.ID, content string) error
}

// Recipients resolves who should hear about a guild's new submissions.
type Recipients interface {
	ListAuthorized(ctx context.Context, guildID snowflake.ID) ([]snowflake.ID, error)
}

// Subscriber is the event source the notifier consumes.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// Config tunes delivery fan-out.
type Config struct {
	// MaxConcurrent bounds in-flight deliveries per event.
	MaxConcurrent int
	// RatePerSecond bounds deliveries across all events. Zero disables the limit.
	RatePerSecond float64
}

// Notifier sends direct messages for submission events.
type Notifier struct {
	sender        Sender
	recipients    Recipients
	metrics       *metrics.Metrics
	limiter       *rate.Limiter
	logger        *zap.Logger
	maxConcurrent int
}

// New creates a Notifier.
func New(sender Sender, recipients Recipients, m *metrics.Metrics, cfg Config, logger *zap.Logger) *Notifier {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), maxConcurrent)
	}

	return &Notifier{
		sender:        sender,
		recipients:    recipients,
		metrics:       m,
		limiter:       limiter,
		logger:        logger.Named("notify"),
		maxConcurrent: maxConcurrent,
	}
}

// Run consumes events until ctx is done or the bus closes.
func (n *Notifier) Run(ctx context.Context, sub Subscriber) error {
	received, err := sub.Subscribe(ctx, events.TopicSubmissionReceived)
	if err != nil {
		return err
	}

	decided, err := sub.Subscribe(ctx, events.TopicSubmissionDecided)
	if err != nil {
		return err
	}

	for received != nil || decided != nil {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-received:
			if !ok {
				received = nil
				continue
			}

			n.handle(ctx, msg, func(ctx context.Context) error {
				event, err := events.Decode[events.SubmissionReceived](msg)
				if err != nil {
					return err
				}

				return n.NotifyReceived(ctx, event)
			})
		case msg, ok := <-decided:
			if !ok {
				decided = nil
				continue
			}

			n.handle(ctx, msg, func(ctx context.Context) error {
				event, err := events.Decode[events.SubmissionDecided](msg)
				if err != nil {
					return err
				}

				return n.NotifyDecided(ctx, event)
			})
		}
	}

	return nil
}

// NotifyReceived tells every owner and reviewer of the guild about a new submission.
func (n *Notifier) NotifyReceived(ctx context.Context, event events.SubmissionReceived) error {
	recipients, err := n.recipients.ListAuthorized(ctx, event.GuildID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipients: %w (guildID=%s)", err, event.GuildID)
	}

	if len(recipients) == 0 {
		n.logger.Warn("Guild has no one to notify", zap.Uint64("guildID", uint64(event.GuildID)))
		return nil
	}

	content := fmt.Sprintf(
		"📥 New submission from <@%s> (**%s**, score %d) is waiting for review. Use `/review` in the server to handle it.",
		event.SubmitterID, event.Username, event.Score,
	)

	return n.fanOut(ctx, recipients, content)
}

// NotifyDecided tells the submitter how their submission was decided.
func (n *Notifier) NotifyDecided(ctx context.Context, event events.SubmissionDecided) error {
	var content string

	switch event.Decision {
	case events.DecisionApproved:
		content = fmt.Sprintf("✅ Your submission with a score of %d has been approved and added to the leaderboard!", event.Score)
	case events.DecisionRejected:
		content = fmt.Sprintf("❌ Your submission with a score of %d has been rejected.", event.Score)
	default:
		return fmt.Errorf("unknown decision %q", event.Decision)
	}

	return n.fanOut(ctx, []snowflake.ID{event.SubmitterID}, content)
}

// handle runs fn for a message and always acknowledges it.
func (n *Notifier) handle(ctx context.Context, msg *message.Message, fn func(context.Context) error) {
	defer msg.Ack()

	if err := fn(ctx); err != nil {
		n.logger.Warn("Failed to process notification event",
			zap.String("messageID", msg.UUID),
			zap.Error(err))
	}
}

// fanOut delivers content to every recipient with bounded concurrency.
func (n *Notifier) fanOut(ctx context.Context, recipients []snowflake.ID, content string) error {
	p := pool.New().WithErrors().WithMaxGoroutines(n.maxConcurrent)

	for _, userID := range recipients {
		p.Go(func() error {
			return n.deliver(ctx, userID, content)
		})
	}

	return p.Wait()
}

// deliver sends one message, recording the outcome.
func (n *Notifier) deliver(ctx context.Context, userID snowflake.ID, content string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		n.metrics.NotificationsFailed.Inc()
		return fmt.Errorf("%w: %w (userID=%s)", ErrDeliveryFailed, err, userID)
	}

	if err := n.sender.SendDirectMessage(ctx, userID, content); err != nil {
		n.metrics.NotificationsFailed.Inc()
		n.logger.Warn("Failed to deliver notification",
			zap.Uint64("userID", uint64(userID)),
			zap.Error(err))

		return fmt.Errorf("%w: %w (userID=%s)", ErrDeliveryFailed, err, userID)
	}

	n.metrics.NotificationsSent.Inc()

	return nil
}
