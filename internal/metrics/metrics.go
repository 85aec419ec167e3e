package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedPagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_feed_pages_total",
			Help: "Total number of feed pages served",
		},
	)

	feedProfilesReturned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_feed_profiles_returned_total",
			Help: "Total number of candidate profiles returned across all pages",
		},
	)

	feedLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_feed_latency_seconds",
			Help:    "Feed page fetch latency",
			Buckets: prometheus.DefBuckets,
		},
	)

	likesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_likes_total",
			Help: "Total number of recorded likes",
		},
		[]string{"target", "outcome"},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engagement_matches_total",
			Help: "Total number of matches created",
		},
	)

	personaDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_persona_decisions_total",
			Help: "Persona reciprocation decisions by result",
		},
		[]string{"result"},
	)

	impressionBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_impression_batches_total",
			Help: "Best-effort impression batches by result",
		},
		[]string{"result"},
	)
)

func RecordFeedPage(profiles int, elapsed time.Duration) {
	feedPagesTotal.Inc()
	feedProfilesReturned.Add(float64(profiles))
	feedLatency.Observe(elapsed.Seconds())
}

// RecordLike tags the like with its target kind ("human"/"bot") and
// outcome ("match"/"no_match").
func RecordLike(target, outcome string) {
	likesTotal.WithLabelValues(target, outcome).Inc()
}

func RecordMatch() {
	matchesTotal.Inc()
}

// RecordPersonaDecision tracks "reciprocated", "declined" and "inactive".
func RecordPersonaDecision(result string) {
	personaDecisionsTotal.WithLabelValues(result).Inc()
}

func RecordImpressionBatch(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	impressionBatches.WithLabelValues(result).Inc()
}
