package events

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

const (
	// TopicSubmissionReceived carries SubmissionReceived payloads.
	TopicSubmissionReceived = "submission.received"
	// TopicSubmissionDecided carries SubmissionDecided payloads.
	TopicSubmissionDecided = "submission.decided"
)

// Decision is the outcome of a review.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// SubmissionReceived is published once a submission has been stored.
type SubmissionReceived struct {
	SubmissionID uuid.UUID    `json:"submissionId"`
	GuildID      snowflake.ID `json:"guildId"`
	SubmitterID  snowflake.ID `json:"submitterId"`
	Username     string       `json:"username"`
	Score        int64        `json:"score"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// SubmissionDecided is published after a submission was approved or rejected.
type SubmissionDecided struct {
	SubmissionID uuid.UUID    `json:"submissionId"`
	GuildID      snowflake.ID `json:"guildId"`
	SubmitterID  snowflake.ID `json:"submitterId"`
	ReviewerID   snowflake.ID `json:"reviewerId"`
	Username     string       `json:"username"`
	Score        int64        `json:"score"`
	Decision     Decision     `json:"decision"`
}
