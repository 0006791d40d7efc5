package metrics_test

import (
	"testing"

	"github.com/proofboard/proofboard/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.SubmissionsCreated.Inc()
	m.Decisions.WithLabelValues("approved").Inc()
	m.Decisions.WithLabelValues("approved").Inc()
	m.NotificationsFailed.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.SubmissionsCreated), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Decisions.WithLabelValues("approved")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.NotificationsFailed), 0)

	count, err := testutil.GatherAndCount(reg, "proofboard_review_decisions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewNopDoesNotPanicTwice(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		metrics.NewNop()
		metrics.NewNop()
	})
}
