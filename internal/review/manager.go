package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/proofboard/proofboard/internal/redis"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	// KeyPrefix namespaces review sessions in Redis.
	KeyPrefix = "review:"

	// DefaultSessionTTL is how long an untouched session survives.
	DefaultSessionTTL = time.Hour
)

// ErrSessionNotFound indicates the session expired or was never opened.
var ErrSessionNotFound = errors.New("review session not found")

// Manager persists open review sessions in Redis with automatic expiration.
type Manager struct {
	redis  rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewManager creates a session manager on the review session database.
func NewManager(redisManager *redis.Manager, ttl time.Duration, logger *zap.Logger) (*Manager, error) {
	client, err := redisManager.GetClient(redis.ReviewSessionDBIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis client: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &Manager{
		redis:  client,
		ttl:    ttl,
		logger: logger.Named("review_sessions"),
	}, nil
}

// Save stores the session and refreshes its expiration.
func (m *Manager) Save(ctx context.Context, session *Session) error {
	data, err := sonic.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal review session: %w", err)
	}

	cmd := m.redis.B().Set().Key(session.Key()).Value(rueidis.BinaryString(data)).Ex(m.ttl).Build()
	if err := m.redis.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to save review session: %w (key=%s)", err, session.Key())
	}

	return nil
}

// Load fetches the reviewer's session for a submission.
func (m *Manager) Load(ctx context.Context, reviewerID snowflake.ID, submissionID uuid.UUID) (*Session, error) {
	key := sessionKey(reviewerID, submissionID)

	data, err := m.redis.Do(ctx, m.redis.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrSessionNotFound
		}

		return nil, fmt.Errorf("failed to load review session: %w (key=%s)", err, key)
	}

	var session Session
	if err := sonic.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal review session: %w (key=%s)", err, key)
	}

	return &session, nil
}

// Delete drops a session immediately instead of waiting for it to expire.
func (m *Manager) Delete(ctx context.Context, session *Session) {
	if err := m.redis.Do(ctx, m.redis.B().Del().Key(session.Key()).Build()).Error(); err != nil {
		m.logger.Error("Failed to delete review session",
			zap.String("key", session.Key()),
			zap.Error(err))
	}
}
