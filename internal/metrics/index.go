package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search index Prometheus metrics.
var (
	IndexOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "index_operations_total",
			Help:      "Total number of search index operations",
		},
		[]string{"op", "status"},
	)

	IndexOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "index_operation_duration_seconds",
			Help:      "Search index operation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		},
		[]string{"op"},
	)

	ReindexedRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "reindexed_records_total",
			Help:      "Total number of records written by reindex runs",
		},
	)
)

var registerIndexOnce sync.Once

// RegisterIndexMetrics registers the index metrics with the default registry.
// Safe to call more than once.
func RegisterIndexMetrics() {
	registerIndexOnce.Do(func() {
		prometheus.MustRegister(IndexOperationsTotal)
		prometheus.MustRegister(IndexOperationDuration)
		prometheus.MustRegister(ReindexedRecordsTotal)
	})
}
