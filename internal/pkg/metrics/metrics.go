// Package metrics exposes Prometheus instruments for the recruitment core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clubrecruit"

// Metrics holds every instrument the services and HTTP layer update
type Metrics struct {
	// Membership
	MembershipTransitions *prometheus.CounterVec
	ClubsCreated          prometheus.Counter

	// Recruitment
	ApplicationsSubmitted prometheus.Counter
	ApplicationStatus     *prometheus.CounterVec

	// Discussion
	ThreadsCreated  *prometheus.CounterVec
	CommentsCreated *prometheus.CounterVec
	CommentsEdited  prometheus.Counter
	CommentsDeleted *prometheus.CounterVec
	AccessDenied    *prometheus.CounterVec

	// HTTP
	RequestDuration *prometheus.HistogramVec
}

// New registers all instruments on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		MembershipTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "membership_transitions_total",
				Help:      "Club membership state transitions",
			},
			[]string{"transition"},
		),
		ClubsCreated: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "clubs_created_total",
				Help:      "Clubs created",
			},
		),
		ApplicationsSubmitted: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "applications_submitted_total",
				Help:      "Applications submitted",
			},
		),
		ApplicationStatus: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "application_status_updates_total",
				Help:      "Application status updates by new status",
			},
			[]string{"status"},
		),
		ThreadsCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "threads_created_total",
				Help:      "Comment threads created lazily on first access",
			},
			[]string{"type"},
		),
		CommentsCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "comments_created_total",
				Help:      "Comments created by thread type",
			},
			[]string{"type"},
		),
		CommentsEdited: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "comments_edited_total",
				Help:      "Comment edits",
			},
		),
		CommentsDeleted: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "comments_deleted_total",
				Help:      "Comment soft deletes by deleter relation",
			},
			[]string{"by"},
		),
		AccessDenied: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "thread_access_denied_total",
				Help:      "Thread access denials by visibility tier",
			},
			[]string{"visibility"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "route", "status"},
		),
	}
}

// NewNop returns instruments registered on a private registry, for tests and tools
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
