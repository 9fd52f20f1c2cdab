// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/folio/internal/events"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
)

// CreateNotification recommends for the requested title and queues an email
// with the results to the reader's profile address. Delivery is asynchronous:
// 202 means queued, not sent.
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.publisher == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeFeatureDisabled, "notifications are not enabled", nil)
		return
	}

	var req models.NotificationRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	p, err := h.profiles.Get(r.Context(), req.Username)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	outcome, err := h.engine.Recommend(r.Context(), req.Title)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if !outcome.Resolved || len(outcome.Recommendations) == 0 {
		respondError(w, r, http.StatusUnprocessableEntity, CodeTitleNotFound,
			"no catalog title matched closely enough to recommend from", nil)
		return
	}

	titles := make([]string, len(outcome.Recommendations))
	for i, rec := range outcome.Recommendations {
		titles[i] = rec.Book.Title
	}

	event := events.NewNotificationRequest(p.Username, p.Email, outcome.MatchedTitle, titles)
	if err := h.publisher.Publish(r.Context(), event); err != nil {
		status, code := errorStatus(err)
		if code == CodeInternal {
			status, code = http.StatusServiceUnavailable, CodeQueueUnavailable
		}
		respondError(w, r, status, code, "failed to queue notification", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("notification_id", event.ID).
		Str("username", p.Username).
		Str("matched_title", sanitizeLogValue(outcome.MatchedTitle)).
		Int("titles", len(titles)).
		Msg("Notification queued")

	respondSuccess(w, http.StatusAccepted, models.NotificationAccepted{
		ID:           event.ID,
		Username:     p.Username,
		MatchedTitle: outcome.MatchedTitle,
		Titles:       titles,
	}, start)
}
