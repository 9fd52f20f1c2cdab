// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/folio/internal/models"
)

// HealthLive reports that the process is serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Version:   h.version,
		Ready:     h.engine.Status().Ready,
		Uptime:    time.Since(h.startTime).Seconds(),
		Timestamp: time.Now().UTC(),
	}, start)
}

// HealthReady returns 200 once a catalog snapshot is published and 503 before.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := h.engine.Status()

	health := models.HealthResponse{
		Status:          "ready",
		Version:         h.version,
		Ready:           status.Ready,
		SnapshotVersion: status.Version,
		Uptime:          time.Since(h.startTime).Seconds(),
		Timestamp:       time.Now().UTC(),
	}
	if !status.Ready {
		health.Status = "not_ready"
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   models.StatusError,
			Data:     health,
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    &models.APIError{Code: CodeNotReady, Message: "no catalog snapshot has been loaded"},
		})
		return
	}
	respondSuccess(w, http.StatusOK, health, start)
}
