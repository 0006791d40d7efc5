package database

import (
	"github.com/proofboard/proofboard/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	registry    *models.RegistryModel
	submission  *models.SubmissionModel
	leaderboard *models.LeaderboardModel
	setting     *models.SettingModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	leaderboard := models.NewLeaderboard(db, logger)

	return &Repository{
		registry:    models.NewRegistry(db, logger),
		submission:  models.NewSubmission(db, leaderboard, logger),
		leaderboard: leaderboard,
		setting:     models.NewSetting(db, logger),
	}
}

// Registry returns the owner and reviewer model.
func (r *Repository) Registry() *models.RegistryModel {
	return r.registry
}

// Submission returns the pending submission model.
func (r *Repository) Submission() *models.SubmissionModel {
	return r.submission
}

// Leaderboard returns the approved score model.
func (r *Repository) Leaderboard() *models.LeaderboardModel {
	return r.leaderboard
}

// Setting returns the guild settings model.
func (r *Repository) Setting() *models.SettingModel {
	return r.setting
}
