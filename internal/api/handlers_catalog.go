// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/recommend"
)

// CatalogStatus describes the published snapshot.
func (h *Handler) CatalogStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, h.engine.Status(), time.Now())
}

// CatalogReload rebuilds the snapshot from the catalog source. A failed
// reload leaves the previous snapshot serving.
func (h *Handler) CatalogReload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.reloader == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeFeatureDisabled, "catalog reload is not configured", nil)
		return
	}

	snap, err := h.reloader.Reload(r.Context())
	if err != nil {
		if errors.Is(err, recommend.ErrInvariantViolation) {
			respondDomainError(w, r, err)
			return
		}
		respondError(w, r, http.StatusBadGateway, CodeReloadFailed, "catalog reload failed; previous snapshot kept", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Uint64("version", snap.Version).
		Int("rows", snap.Len()).
		Msg("Catalog reloaded via API")

	respondSuccess(w, http.StatusOK, models.ReloadResponse{Version: snap.Version, Rows: snap.Len()}, start)
}
