package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration by retrieval strategy",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"strategy", "status"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of documents returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
		},
		[]string{"strategy"},
	)

	SearchSkippedCandidatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_skipped_candidates_total",
			Help:      "Candidates excluded from local ranking for a dimension mismatch or an undecodable vector",
		},
	)

	SearchDroppedDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_dropped_documents_total",
			Help:      "Ranked identifiers dropped because no document exists",
		},
		[]string{"strategy"},
	)
)

var registerSearch sync.Once

// RegisterSearchMetrics registers search collectors with the default registry. Safe to call repeatedly.
func RegisterSearchMetrics() {
	registerSearch.Do(func() {
		prometheus.MustRegister(
			SearchDuration,
			SearchResults,
			SearchSkippedCandidatesTotal,
			SearchDroppedDocumentsTotal,
		)
	})
}
