package review

import (
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/proofboard/proofboard/internal/events"
)

// ErrSessionClosed is returned for any call on a session that already reached a decision.
var ErrSessionClosed = errors.New("review session is closed")

// Session is one reviewer's view of one pending submission.
// The presentation layer holds it by key and calls its methods in response to button presses.
type Session struct {
	SubmissionID uuid.UUID       `json:"submissionId"`
	GuildID      snowflake.ID    `json:"guildId"`
	ReviewerID   snowflake.ID    `json:"reviewerId"`
	SubmitterID  snowflake.ID    `json:"submitterId"`
	Username     string          `json:"username"`
	Score        int64           `json:"score"`
	SubmittedAt  time.Time       `json:"submittedAt"`
	Images       []string        `json:"images"`
	Index        int             `json:"index"`
	Decision     events.Decision `json:"decision,omitempty"`
	Done         bool            `json:"done"`
}

// NewSession starts a session at the first image of the submission.
func NewSession(reviewerID snowflake.ID, sub *types.Submission) *Session {
	return &Session{
		SubmissionID: sub.ID,
		GuildID:      sub.GuildID,
		ReviewerID:   reviewerID,
		SubmitterID:  sub.UserID,
		Username:     sub.Username,
		Score:        sub.Score,
		SubmittedAt:  sub.CreatedAt,
		Images:       sub.Images(),
	}
}

// Key identifies the session among all open sessions.
func (s *Session) Key() string {
	return sessionKey(s.ReviewerID, s.SubmissionID)
}

// Closed reports whether the session has reached a terminal state.
func (s *Session) Closed() bool {
	return s.Done
}

// CurrentImage returns the image currently shown.
func (s *Session) CurrentImage() string {
	if len(s.Images) == 0 {
		return ""
	}

	return s.Images[s.Index]
}

// ShowNext advances to the next image, wrapping around to the first.
func (s *Session) ShowNext() (int, error) {
	return s.move(1)
}

// ShowPrevious steps back one image, wrapping around to the last.
func (s *Session) ShowPrevious() (int, error) {
	return s.move(-1)
}

func (s *Session) move(delta int) (int, error) {
	if s.Done {
		return s.Index, fmt.Errorf("%w (submissionID=%s)", ErrSessionClosed, s.SubmissionID)
	}

	n := len(s.Images)
	if n == 0 {
		return 0, nil
	}

	s.Index = ((s.Index+delta)%n + n) % n

	return s.Index, nil
}

// close marks the session terminal with an optional decision.
func (s *Session) close(decision events.Decision) {
	s.Decision = decision
	s.Done = true
}

func sessionKey(reviewerID snowflake.ID, submissionID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s", KeyPrefix, reviewerID, submissionID)
}
