// Package metrics holds Prometheus instruments used across the site.  All
// collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_submissions_total",
			Help: "Cumulative number of successfully persisted submissions.",
		}, []string{"variant"})

	SubmissionDuplicatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "application_submission_duplicates_total",
			Help: "Cumulative number of submissions rejected by the owner uniqueness key.",
		})

	SubmissionRejectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "application_submission_rejects_total",
			Help: "Cumulative number of submissions rejected by schema validation.",
		})

	NotifySendTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_send_total",
			Help: "Cumulative number of notification emails accepted by the mail API.",
		})

	NotifyErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_errors_total",
			Help: "Cumulative number of failed notification dispatches.",
		})

	NotifyRateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_rate_limited_total",
			Help: "Cumulative number of notification requests dropped by the per-origin ceiling.",
		})

	StatusUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_status_updates_total",
			Help: "Cumulative number of operator status transitions, by target status.",
		}, []string{"status"})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		SubmissionDuplicatesTotal,
		SubmissionRejectsTotal,
		NotifySendTotal,
		NotifyErrorsTotal,
		NotifyRateLimitedTotal,
		StatusUpdatesTotal,
	)
}
