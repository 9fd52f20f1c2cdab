// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics by the API router:

	curl http://localhost:8420/metrics

# Available Metrics

Recommendation:
  - folio_recommend_requests_total{outcome}: resolved, unresolved, error
  - folio_recommend_duration_seconds: end-to-end recommend latency
  - folio_resolution_cache_hits_total / folio_resolution_cache_misses_total

Snapshots:
  - folio_snapshot_builds_total{status}: success, error
  - folio_snapshot_build_duration_seconds
  - folio_snapshot_rows, folio_snapshot_vocabulary_size, folio_snapshot_version

Delivery and collaborators:
  - folio_notifications_total{status}: sent, failed, rejected
  - folio_events_published_total, folio_events_consumed_total{result}
  - folio_ocr_requests_total{status}: text, empty, error
  - circuit_breaker_state{name}, circuit_breaker_state_transitions_total

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests, api_rate_limit_hits_total{endpoint}

# Usage

	start := time.Now()
	outcome, err := engine.Recommend(ctx, query)
	metrics.RecordRecommendation(outcomeLabel, time.Since(start))

# Thread Safety

All Record* helpers are safe for concurrent use; Prometheus collectors are
internally synchronized.
*/
package metrics
