package events_test

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/proofboard/proofboard/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBusRoundTrip(t *testing.T) {
	t.Parallel()

	bus := events.NewBus(zap.NewNop())
	t.Cleanup(func() { _ = bus.Close() })

	received, err := bus.Subscribe(t.Context(), events.TopicSubmissionReceived)
	require.NoError(t, err)

	decided, err := bus.Subscribe(t.Context(), events.TopicSubmissionDecided)
	require.NoError(t, err)

	want := events.SubmissionReceived{
		SubmissionID: uuid.New(),
		GuildID:      snowflake.ID(1111),
		SubmitterID:  snowflake.ID(2222),
		Username:     "vee",
		Score:        4200,
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, bus.PublishReceived(t.Context(), want))

	select {
	case msg := <-received:
		got, err := events.Decode[events.SubmissionReceived](msg)
		require.NoError(t, err)
		assert.Equal(t, want.SubmissionID, got.SubmissionID)
		assert.Equal(t, want.GuildID, got.GuildID)
		assert.Equal(t, want.SubmitterID, got.SubmitterID)
		assert.Equal(t, want.Username, got.Username)
		assert.Equal(t, want.Score, got.Score)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for received event")
	}

	require.NoError(t, bus.PublishDecided(t.Context(), events.SubmissionDecided{
		SubmissionID: uuid.New(),
		SubmitterID:  snowflake.ID(2222),
		Decision:     events.DecisionApproved,
	}))

	select {
	case msg := <-decided:
		got, err := events.Decode[events.SubmissionDecided](msg)
		require.NoError(t, err)
		assert.Equal(t, events.DecisionApproved, got.Decision)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for decided event")
	}
}
