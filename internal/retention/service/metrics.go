package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retention_runs_total",
		Help: "Completed retention runs by outcome.",
	}, []string{"status"})

	rowsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retention_rows_deleted_total",
		Help: "Submission rows deleted.",
	})

	objectsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retention_objects_deleted_total",
		Help: "Stored objects deleted.",
	})

	pagesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retention_pages_processed_total",
		Help: "Candidate pages processed.",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "retention_run_duration_seconds",
		Help:    "Wall time of one retention run.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)

func recordPage(rows, objects int) {
	pagesProcessedTotal.Inc()
	rowsDeletedTotal.Add(float64(rows))
	objectsDeletedTotal.Add(float64(objects))
}

func recordRunSuccess(summary Summary) {
	runsTotal.WithLabelValues("success").Inc()
	runDuration.Observe(summary.Duration.Seconds())
}

func recordRunFailure() {
	runsTotal.WithLabelValues("failure").Inc()
}
