// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_recommend_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"}, // resolved, unresolved, error
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	ResolutionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_resolution_cache_hits_total",
			Help: "Total number of title resolutions served from cache",
		},
	)

	ResolutionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_resolution_cache_misses_total",
			Help: "Total number of title resolutions computed by fuzzy matching",
		},
	)

	// Snapshot Metrics
	SnapshotBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_snapshot_builds_total",
			Help: "Total number of catalog snapshot builds by status",
		},
		[]string{"status"},
	)

	SnapshotBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_snapshot_build_duration_seconds",
			Help:    "Duration of catalog snapshot builds in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	SnapshotRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_snapshot_rows",
			Help: "Number of catalog rows in the published snapshot",
		},
	)

	SnapshotVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_snapshot_vocabulary_size",
			Help: "Number of terms in the published snapshot vocabulary",
		},
	)

	SnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_snapshot_version",
			Help: "Version of the published snapshot",
		},
	)

	// Delivery Metrics
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_notifications_total",
			Help: "Total number of recommendation emails by delivery status",
		},
		[]string{"status"}, // sent, failed, rejected
	)

	EventsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_events_published_total",
			Help: "Total number of notification requests published",
		},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_events_consumed_total",
			Help: "Total number of notification requests consumed by result",
		},
		[]string{"result"}, // ack, nack, invalid
	)

	OCRRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_ocr_requests_total",
			Help: "Total number of text extraction requests by status",
		},
		[]string{"status"}, // text, empty, error
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordRecommendation records one recommend call.
func RecordRecommendation(outcome string, duration time.Duration) {
	RecommendRequests.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordResolutionCache records a resolution cache lookup.
func RecordResolutionCache(hit bool) {
	if hit {
		ResolutionCacheHits.Inc()
	} else {
		ResolutionCacheMisses.Inc()
	}
}

// RecordSnapshotBuild records a snapshot build. Gauges only move on success so
// they always describe the published snapshot.
func RecordSnapshotBuild(duration time.Duration, rows, vocabulary int, version uint64, err error) {
	SnapshotBuildDuration.Observe(duration.Seconds())
	if err != nil {
		SnapshotBuilds.WithLabelValues("error").Inc()
		return
	}
	SnapshotBuilds.WithLabelValues("success").Inc()
	SnapshotRows.Set(float64(rows))
	SnapshotVocabularySize.Set(float64(vocabulary))
	SnapshotVersion.Set(float64(version))
}

// RecordNotification records the final status of a recommendation email.
func RecordNotification(status string) {
	Notifications.WithLabelValues(status).Inc()
}

// RecordEventPublished records a published notification request.
func RecordEventPublished() {
	EventsPublished.Inc()
}

// RecordEventConsumed records how a consumed notification request was settled.
func RecordEventConsumed(result string) {
	EventsConsumed.WithLabelValues(result).Inc()
}

// RecordOCR records a text extraction attempt.
func RecordOCR(status string) {
	OCRRequests.WithLabelValues(status).Inc()
}

// RecordCircuitBreakerTransition records a breaker state change.
// States use the gobreaker names: closed, half-open, open.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(circuitStateValue(to))
}

func circuitStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}
