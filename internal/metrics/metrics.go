// Package metrics holds the Prometheus collectors for the ranking service.
//
// Collectors are created at package init so callers can use them without a
// registry (tests, CLIs). Register adds them to a registry once at startup.
package metrics

import (
	"database/sql"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "telofundi"

// Score job outcomes.
const (
	OutcomeUpdated = "updated"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds, by route, method and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		},
	)

	JobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_job_duration_seconds",
			Help:      "Duration of scoring and maintenance jobs, by job and status.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
		[]string{"job", "status"},
	)

	ScoredUsers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranking_scored_users_total",
			Help:      "Users processed by scoring jobs, by job and outcome.",
		},
		[]string{"job", "outcome"},
	)

	InteractionsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_recorded_total",
			Help:      "Interactions accepted by the tracking service, by type.",
		},
		[]string{"type"},
	)

	BestEffortFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "best_effort_failures_total",
			Help:      "Swallowed failures of best-effort side effects, by operation.",
		},
		[]string{"op"},
	)
)

// Collectors returns every collector owned by this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RequestDuration,
		RequestsInFlight,
		JobDuration,
		ScoredUsers,
		InteractionsRecorded,
		BestEffortFailures,
	}
}

// Register adds all collectors to reg, plus connection pool stats when
// sqlDB is non-nil. Collectors that are already registered are ignored.
func Register(reg prometheus.Registerer, sqlDB *sql.DB) error {
	cs := Collectors()
	if sqlDB != nil {
		cs = append(cs, collectors.NewDBStatsCollector(sqlDB, namespace))
	}
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
