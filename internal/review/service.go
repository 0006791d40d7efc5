// Package review implements review sessions over pending submissions.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/proofboard/proofboard/internal/events"
	"github.com/proofboard/proofboard/internal/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrNothingToReview is returned when a guild has no pending submissions.
var ErrNothingToReview = errors.New("no pending submissions")

// Store is the part of the submission store a review needs.
type Store interface {
	ListPending(ctx context.Context, guildID snowflake.ID) ([]*types.Submission, error)
	Approve(ctx context.Context, id uuid.UUID) (*types.LeaderboardEntry, error)
	Reject(ctx context.Context, id uuid.UUID) (*types.Submission, error)
}

// Authorizer answers whether a user may review a guild's submissions.
type Authorizer interface {
	IsAuthorized(ctx context.Context, guildID, userID snowflake.ID) (bool, error)
}

// Publisher announces review decisions.
type Publisher interface {
	PublishDecided(ctx context.Context, event events.SubmissionDecided) error
}

// Service opens review sessions and applies their decisions.
type Service struct {
	store     Store
	auth      Authorizer
	publisher Publisher
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	logger    *zap.Logger
}

// NewService creates a review service.
func NewService(store Store, auth Authorizer, publisher Publisher, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		auth:      auth,
		publisher: publisher,
		metrics:   m,
		tracer:    otel.Tracer("proofboard/review"),
		logger:    logger.Named("review"),
	}
}

// Open creates one session per pending submission of the guild.
// Authorization is checked here only; sessions are private to the reviewer.
func (s *Service) Open(ctx context.Context, guildID, reviewerID snowflake.ID) ([]*Session, error) {
	ctx, span := s.tracer.Start(ctx, "review.Open", trace.WithAttributes(
		attribute.String("guild.id", guildID.String()),
		attribute.String("reviewer.id", reviewerID.String()),
	))
	defer span.End()

	ok, err := s.auth.IsAuthorized(ctx, guildID, reviewerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "authorization check failed")

		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w (guildID=%s, userID=%s)", types.ErrUnauthorized, guildID, reviewerID)
	}

	pending, err := s.store.ListPending(ctx, guildID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list pending failed")

		return nil, err
	}

	if len(pending) == 0 {
		return nil, ErrNothingToReview
	}

	sessions := make([]*Session, 0, len(pending))
	for _, sub := range pending {
		sessions = append(sessions, NewSession(reviewerID, sub))
	}

	s.metrics.ReviewSessionsOpened.Add(float64(len(sessions)))
	span.SetAttributes(attribute.Int("sessions", len(sessions)))

	return sessions, nil
}

// Approve promotes the session's submission to the leaderboard.
func (s *Service) Approve(ctx context.Context, session *Session) error {
	return s.decide(ctx, session, events.DecisionApproved, func(ctx context.Context) error {
		_, err := s.store.Approve(ctx, session.SubmissionID)
		return err
	})
}

// Reject discards the session's submission.
func (s *Service) Reject(ctx context.Context, session *Session) error {
	return s.decide(ctx, session, events.DecisionRejected, func(ctx context.Context) error {
		_, err := s.store.Reject(ctx, session.SubmissionID)
		return err
	})
}

// decide applies a decision once. The session closes on success and when
// someone else already decided the submission.
func (s *Service) decide(
	ctx context.Context, session *Session, decision events.Decision, apply func(context.Context) error,
) error {
	if session.Closed() {
		return fmt.Errorf("%w (submissionID=%s)", ErrSessionClosed, session.SubmissionID)
	}

	ctx, span := s.tracer.Start(ctx, "review.Decide", trace.WithAttributes(
		attribute.String("submission.id", session.SubmissionID.String()),
		attribute.String("decision", string(decision)),
	))
	defer span.End()

	if err := apply(ctx); err != nil {
		if errors.Is(err, types.ErrSubmissionNotFound) {
			session.close("")
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "decision failed")

		return err
	}

	session.close(decision)
	s.metrics.Decisions.WithLabelValues(string(decision)).Inc()

	s.logger.Info("Submission decided",
		zap.String("submissionID", session.SubmissionID.String()),
		zap.Uint64("guildID", uint64(session.GuildID)),
		zap.Uint64("reviewerID", uint64(session.ReviewerID)),
		zap.String("decision", string(decision)))

	// The decision stands even if the submitter can't be told about it
	if err := s.publisher.PublishDecided(ctx, events.SubmissionDecided{
		SubmissionID: session.SubmissionID,
		GuildID:      session.GuildID,
		SubmitterID:  session.SubmitterID,
		ReviewerID:   session.ReviewerID,
		Username:     session.Username,
		Score:        session.Score,
		Decision:     decision,
	}); err != nil {
		s.logger.Warn("Failed to publish decision", zap.Error(err))
	}

	return nil
}
