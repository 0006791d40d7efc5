// Package metrics exposes Prometheus collectors for the submission lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "proofboard"

// Metrics groups the collectors updated by intake, review and notification code.
type Metrics struct {
	SubmissionsCreated   prometheus.Counter
	IntakeOutcomes       *prometheus.CounterVec
	Decisions            *prometheus.CounterVec
	ReviewSessionsOpened prometheus.Counter
	NotificationsSent    prometheus.Counter
	NotificationsFailed  prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SubmissionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_created_total",
			Help:      "Submissions stored as pending.",
		}),
		IntakeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intake_outcomes_total",
			Help:      "Finished submission dialogues by terminal state.",
		}, []string{"state"}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_decisions_total",
			Help:      "Review decisions by outcome.",
		}, []string{"decision"}),
		ReviewSessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_sessions_opened_total",
			Help:      "Review sessions opened.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Direct messages delivered.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_failed_total",
			Help:      "Direct messages that could not be delivered.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.SubmissionsCreated,
			m.IntakeOutcomes,
			m.Decisions,
			m.ReviewSessionsOpened,
			m.NotificationsSent,
			m.NotificationsFailed,
		)
	}

	return m
}

// NewNop creates collectors that are not registered anywhere.
func NewNop() *Metrics {
	return New(nil)
}
