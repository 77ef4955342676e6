package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Enrichments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m2m_claims_enrichments_total",
			Help: "Total number of M2M token enrichments by outcome",
		},
		[]string{"outcome"},
	)

	EnrichmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "m2m_claims_enrichment_duration_seconds",
			Help:    "Duration of M2M token enrichment in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
)

// ObserveEnrichment records one invocation
func ObserveEnrichment(outcome string, took time.Duration) {
	Enrichments.WithLabelValues(outcome).Inc()
	EnrichmentDuration.WithLabelValues(outcome).Observe(took.Seconds())
}
