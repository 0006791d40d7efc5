// Package leaderboard ranks approved scores for display and posting.
package leaderboard

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/database/types"
	"go.uber.org/zap"
)

var (
	ErrNoChannel = errors.New("no leaderboard channel configured")
	ErrNoData    = errors.New("leaderboard has no entries")
)

// Entries reads ranked leaderboard rows.
type Entries interface {
	TopN(ctx context.Context, guildID snowflake.ID, limit int) ([]*types.LeaderboardEntry, error)
	ExportAll(ctx context.Context, guildID snowflake.ID) ([]*types.LeaderboardEntry, error)
}

// Settings reads per-guild preferences.
type Settings interface {
	Get(ctx context.Context, guildID snowflake.ID) (*types.GuildSetting, error)
}

// Post is what gets published to a guild's leaderboard channel.
type Post struct {
	ChannelID snowflake.ID
	Rows      []Row
}

// Page is one screen of the interactive leaderboard.
type Page struct {
	Rows   []Row
	Number int
	Total  int
}

// Service answers leaderboard queries using each guild's settings.
type Service struct {
	entries  Entries
	settings Settings
	perPage  int
	logger   *zap.Logger
}

// NewService creates a leaderboard service.
func NewService(entries Entries, settings Settings, perPage int, logger *zap.Logger) *Service {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	return &Service{
		entries:  entries,
		settings: settings,
		perPage:  perPage,
		logger:   logger.Named("leaderboard"),
	}
}

// Top returns the guild's best scores, as many as its result limit allows.
func (s *Service) Top(ctx context.Context, guildID snowflake.ID) ([]Row, error) {
	settings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	return s.top(ctx, guildID, settings.ResultLimit)
}

// PreparePost resolves the channel and rows for posting the leaderboard.
func (s *Service) PreparePost(ctx context.Context, guildID snowflake.ID) (*Post, error) {
	settings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if !settings.HasLeaderboardChannel() {
		return nil, ErrNoChannel
	}

	rows, err := s.top(ctx, guildID, settings.ResultLimit)
	if err != nil {
		return nil, err
	}

	return &Post{ChannelID: settings.LeaderboardChannelID, Rows: rows}, nil
}

// Page returns one page of the full history. Out of range pages are clamped.
func (s *Service) Page(ctx context.Context, guildID snowflake.ID, page int) (*Page, error) {
	entries, err := s.entries.ExportAll(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, ErrNoData
	}

	total := PageCount(len(entries), s.perPage)
	page = max(0, min(page, total-1))

	return &Page{
		Rows:   Paginate(entries, page, s.perPage),
		Number: page,
		Total:  total,
	}, nil
}

func (s *Service) top(ctx context.Context, guildID snowflake.ID, limit int) ([]Row, error) {
	entries, err := s.entries.TopN(ctx, guildID, limit)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, ErrNoData
	}

	s.logger.Debug("Loaded top scores",
		zap.Uint64("guildID", uint64(guildID)),
		zap.Int("limit", limit),
		zap.Int("rows", len(entries)))

	return Paginate(entries, 0, limit), nil
}
