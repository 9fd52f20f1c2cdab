// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package api provides the HTTP REST API for Folio.

All endpoints live under /api/v1 and return the models.APIResponse envelope.
The router is built on chi with request ID, access logging, panic recovery,
CORS, per-IP rate limiting, security headers and Prometheus metrics.

Endpoints:

	GET    /api/v1/health/live              process liveness
	GET    /api/v1/health/ready             ready once a catalog snapshot is published
	GET    /api/v1/books?page=              catalog listing, 10 books per page
	GET    /api/v1/books/similar?q=&k=      free-text content similarity
	GET    /api/v1/recommendations?title=   fuzzy title resolution plus 10 neighbors
	POST   /api/v1/recommendations/image    multipart "image": OCR, then recommend
	GET    /api/v1/catalog/status           snapshot version and size
	POST   /api/v1/catalog/reload           rebuild the snapshot from the source
	POST   /api/v1/profiles                 register a reader
	GET    /api/v1/profiles/{username}
	DELETE /api/v1/profiles/{username}
	POST   /api/v1/notifications            email recommendations to a reader
	GET    /metrics                         Prometheus exposition

An unresolved title is not an error: the recommendation endpoints return 200
with resolved=false. POST /api/v1/notifications returns 422 in that case since
there is nothing to send.
*/
package api
