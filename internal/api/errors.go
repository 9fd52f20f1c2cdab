// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/folio/internal/events"
	"github.com/tomtom215/folio/internal/ocr"
	"github.com/tomtom215/folio/internal/profile"
	"github.com/tomtom215/folio/internal/recommend"
)

// Error codes returned in APIError.Code.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotReady           = "CATALOG_NOT_READY"
	CodeInvariantViolation = "INVARIANT_VIOLATION"
	CodeTitleNotFound      = "TITLE_NOT_FOUND"
	CodeProfileNotFound    = "PROFILE_NOT_FOUND"
	CodeProfileExists      = "PROFILE_EXISTS"
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeInvalidImage       = "INVALID_IMAGE"
	CodeNoTextFound        = "NO_TEXT_FOUND"
	CodeOCRUnavailable     = "OCR_UNAVAILABLE"
	CodeFeatureDisabled    = "FEATURE_DISABLED"
	CodeQueueUnavailable   = "QUEUE_UNAVAILABLE"
	CodeReloadFailed       = "RELOAD_FAILED"
	CodeCanceled           = "REQUEST_CANCELED"
	CodeInternal           = "INTERNAL_ERROR"
)

// errorStatus maps a domain error to an HTTP status and error code. Errors
// it does not know become 500 INTERNAL_ERROR.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrSnapshotNotReady):
		return http.StatusServiceUnavailable, CodeNotReady
	case errors.Is(err, recommend.ErrInvariantViolation):
		return http.StatusInternalServerError, CodeInvariantViolation
	case errors.Is(err, profile.ErrProfileNotFound):
		return http.StatusNotFound, CodeProfileNotFound
	case errors.Is(err, profile.ErrProfileExists):
		return http.StatusConflict, CodeProfileExists
	case errors.Is(err, profile.ErrInvalidEmail):
		return http.StatusBadRequest, CodeInvalidEmail
	case errors.Is(err, profile.ErrInvalidUsername):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, ocr.ErrEmptyImage), errors.Is(err, ocr.ErrImageTooLarge):
		return http.StatusBadRequest, CodeInvalidImage
	case errors.Is(err, ocr.ErrUnavailable):
		return http.StatusServiceUnavailable, CodeOCRUnavailable
	case errors.Is(err, events.ErrBusClosed):
		return http.StatusServiceUnavailable, CodeQueueUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, CodeCanceled
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// errorMessage is the client-facing message for a status. Server errors do
// not leak internal detail.
func errorMessage(status int, err error) string {
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		return http.StatusText(status)
	}
	return err.Error()
}
