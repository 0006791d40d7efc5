package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/proofboard/proofboard/internal/database/dbretry"
	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// SubmissionModel handles database operations for pending submissions.
type SubmissionModel struct {
	db          *bun.DB
	leaderboard *LeaderboardModel
	logger      *zap.Logger
}

// NewSubmission creates a SubmissionModel with database access.
func NewSubmission(db *bun.DB, leaderboard *LeaderboardModel, logger *zap.Logger) *SubmissionModel {
	return &SubmissionModel{
		db:          db,
		leaderboard: leaderboard,
		logger:      logger.Named("db_submission"),
	}
}

// Create stores a new pending submission and returns its ID.
// Returns types.ErrDuplicateSubmission if the user already has one pending in the guild.
func (m *SubmissionModel) Create(ctx context.Context, sub *types.Submission) (uuid.UUID, error) {
	if err := validateSubmission(sub); err != nil {
		return uuid.Nil, err
	}

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}

	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		result, err := m.db.NewInsert().
			Model(sub).
			On("CONFLICT (user_id, guild_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert submission: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}

		if affected == 0 {
			return types.ErrDuplicateSubmission
		}

		return nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create submission: %w (userID=%s, guildID=%s)", err, sub.UserID, sub.GuildID)
	}

	m.logger.Debug("Created submission",
		zap.String("submissionID", sub.ID.String()),
		zap.Uint64("userID", uint64(sub.UserID)),
		zap.Uint64("guildID", uint64(sub.GuildID)))

	return sub.ID, nil
}

// Get retrieves a pending submission by ID.
func (m *SubmissionModel) Get(ctx context.Context, id uuid.UUID) (*types.Submission, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Submission, error) {
		var sub types.Submission

		err := m.db.NewSelect().
			Model(&sub).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrSubmissionNotFound
			}

			return nil, fmt.Errorf("failed to get submission: %w (id=%s)", err, id)
		}

		return &sub, nil
	})
}

// ListPending returns the guild's pending submissions, oldest first.
func (m *SubmissionModel) ListPending(ctx context.Context, guildID snowflake.ID) ([]*types.Submission, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Submission, error) {
		var subs []*types.Submission

		err := m.db.NewSelect().
			Model(&subs).
			Where("guild_id = ?", guildID).
			Order("created_at ASC", "id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list pending submissions: %w (guildID=%s)", err, guildID)
		}

		return subs, nil
	})
}

// Approve removes the submission and appends its score to the leaderboard in one transaction.
// A second approval or a rejection racing with this one gets types.ErrSubmissionNotFound.
func (m *SubmissionModel) Approve(ctx context.Context, id uuid.UUID) (*types.LeaderboardEntry, error) {
	var entry *types.LeaderboardEntry

	err := dbretry.Transaction(ctx, m.db, func(ctx context.Context, tx bun.Tx) error {
		sub, err := m.take(ctx, tx, id)
		if err != nil {
			return err
		}

		entry = &types.LeaderboardEntry{
			UserID:      sub.UserID,
			GuildID:     sub.GuildID,
			Username:    sub.Username,
			Score:       sub.Score,
			SubmittedAt: sub.CreatedAt,
			ApprovedAt:  time.Now().UTC(),
		}

		return m.leaderboard.appendEntry(ctx, tx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to approve submission: %w (id=%s)", err, id)
	}

	m.logger.Debug("Approved submission",
		zap.String("submissionID", id.String()),
		zap.Int64("entryID", entry.ID),
		zap.Int64("score", entry.Score))

	return entry, nil
}

// Reject removes the submission without recording a score and returns what was removed.
func (m *SubmissionModel) Reject(ctx context.Context, id uuid.UUID) (*types.Submission, error) {
	var sub *types.Submission

	err := dbretry.Transaction(ctx, m.db, func(ctx context.Context, tx bun.Tx) error {
		var err error

		sub, err = m.take(ctx, tx, id)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reject submission: %w (id=%s)", err, id)
	}

	m.logger.Debug("Rejected submission", zap.String("submissionID", id.String()))

	return sub, nil
}

// take loads and deletes a submission inside a transaction.
// The delete's row count decides the winner when two reviewers act at once.
func (m *SubmissionModel) take(ctx context.Context, tx bun.Tx, id uuid.UUID) (*types.Submission, error) {
	var sub types.Submission

	err := tx.NewSelect().
		Model(&sub).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrSubmissionNotFound
		}

		return nil, fmt.Errorf("failed to load submission: %w", err)
	}

	result, err := tx.NewDelete().
		Model((*types.Submission)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete submission: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return nil, types.ErrSubmissionNotFound
	}

	return &sub, nil
}

// validateSubmission checks the fields every stored submission must carry.
func validateSubmission(sub *types.Submission) error {
	switch {
	case sub == nil:
		return fmt.Errorf("%w: submission is nil", types.ErrInvalidArgument)
	case sub.UserID == 0 || sub.GuildID == 0:
		return fmt.Errorf("%w: user and guild are required", types.ErrInvalidArgument)
	case strings.TrimSpace(sub.Username) == "":
		return fmt.Errorf("%w: username is required", types.ErrInvalidArgument)
	case sub.Image1URL == "" || sub.Image2URL == "":
		return fmt.Errorf("%w: two images are required", types.ErrInvalidArgument)
	}

	return nil
}
