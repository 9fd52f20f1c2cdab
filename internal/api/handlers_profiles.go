// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/validation"
)

// CreateProfile registers a reader. 409 when the username is taken.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateProfileRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	p, err := h.profiles.Create(r.Context(), req.Username, req.Email)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/profiles/"+p.Username)
	respondSuccess(w, http.StatusCreated, p, start)
}

// GetProfile returns the profile named by the {username} path parameter.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	username, ok := usernameParam(w, r)
	if !ok {
		return
	}

	p, err := h.profiles.Get(r.Context(), username)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, p, start)
}

// DeleteProfile removes the profile named by the {username} path parameter.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	username, ok := usernameParam(w, r)
	if !ok {
		return
	}

	if err := h.profiles.Delete(r.Context(), username); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// usernameParam validates the {username} path parameter, responding 400 when
// it is malformed.
func usernameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := chi.URLParam(r, "username")
	if err := validation.GetValidator().Var(username, "required,username"); err != nil {
		respondValidation(w, &models.APIError{
			Code:    CodeValidation,
			Message: "username must be 1-64 letters, digits, '_', '.' or '-'",
			Details: map[string]interface{}{"field": "username"},
		})
		return "", false
	}
	return username, true
}
