// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package middleware provides net/http middleware shared by the API router.

Key Components:

  - RequestID: accepts or assigns X-Request-ID and seeds the logging context
  - PrometheusMetrics: request counts, latency and in-flight gauge, labeled by
    chi route pattern so path parameters do not explode label cardinality
  - AccessLog: one structured log line per request

Every middleware has the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
