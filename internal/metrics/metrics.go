// Package metrics holds the Prometheus collectors for the deadline scanner
// and the activity auditor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DeadlineScanRuns counts scanner runs.
	// Labels: result (success, error)
	DeadlineScanRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "project_management",
			Subsystem: "deadline_scanner",
			Name:      "runs_total",
			Help:      "Total number of deadline scan runs by result",
		},
		[]string{"result"},
	)

	// DeadlineScanDuration tracks how long a full scan takes.
	DeadlineScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "project_management",
			Subsystem: "deadline_scanner",
			Name:      "duration_seconds",
			Help:      "Duration of deadline scan runs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// DeadlineRecordsCreated counts rows written by the scanner.
	// Labels: kind (notification, reminder)
	DeadlineRecordsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "project_management",
			Subsystem: "deadline_scanner",
			Name:      "records_created_total",
			Help:      "Total number of notification and reminder rows created by the scanner",
		},
		[]string{"kind"},
	)

	// ActivityLogWrites counts audit writes.
	// Labels: result (success, error)
	ActivityLogWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "project_management",
			Subsystem: "activity",
			Name:      "log_writes_total",
			Help:      "Total number of activity log writes by result",
		},
		[]string{"result"},
	)
)
