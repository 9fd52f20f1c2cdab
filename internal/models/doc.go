// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package models defines the HTTP API data structures shared by handlers and clients.

Key Types:
  - APIResponse: Standardized API response wrapper
  - Metadata: Response timing and cache information
  - APIError: Machine-readable error code plus message
  - Request types: RecommendationRequest, SimilarBooksRequest,
    CreateProfileRequest, NotificationRequest

Request structs carry go-playground/validator tags and are checked with
validation.ValidateStruct before a handler uses them.
*/
package models
