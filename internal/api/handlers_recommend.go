// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/ocr"
	"github.com/tomtom215/folio/internal/recommend"
)

// Recommendations resolves the title query parameter and returns its nearest
// neighbors. An unresolved title is a successful response with resolved=false.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := models.RecommendationRequest{Title: r.URL.Query().Get("title")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	outcome, err := h.engine.Recommend(r.Context(), req.Title)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, recommendationResponse(outcome), start)
}

// RecommendationsFromImage extracts a title from an uploaded cover image and
// recommends from it. The image is read from the multipart field "image".
func (h *Handler) RecommendationsFromImage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.ocr == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeFeatureDisabled, "image recognition is not enabled", nil)
		return
	}

	image, apiErr := readImage(w, r)
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	text, found, err := h.ocr.ExtractText(r.Context(), image)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if !found {
		respondError(w, r, http.StatusUnprocessableEntity, CodeNoTextFound, "no text was found in the image", nil)
		return
	}
	if len([]rune(text)) > models.MaxTitleLength {
		text = string([]rune(text)[:models.MaxTitleLength])
	}

	logging.Ctx(r.Context()).Debug().
		Str("extracted_text", sanitizeLogValue(text)).
		Int("image_bytes", len(image)).
		Msg("Text extracted from image")

	outcome, err := h.engine.Recommend(r.Context(), text)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := recommendationResponse(outcome)
	resp.ExtractedText = text
	respondSuccess(w, http.StatusOK, resp, start)
}

// readImage returns the bytes of the "image" form file, bounded by
// ocr.MaxImageSize.
func readImage(w http.ResponseWriter, r *http.Request) ([]byte, *models.APIError) {
	r.Body = http.MaxBytesReader(w, r.Body, ocr.MaxImageSize+(1<<20))
	if err := r.ParseMultipartForm(ocr.MaxImageSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &models.APIError{Code: CodeInvalidImage, Message: ocr.ErrImageTooLarge.Error()}
		}
		return nil, &models.APIError{Code: CodeValidation, Message: "request must be multipart/form-data with an image field"}
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, &models.APIError{Code: CodeValidation, Message: "image is required"}
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // read-only multipart file

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, &models.APIError{Code: CodeInvalidImage, Message: "image must have an image/* content type"}
	}

	data, err := io.ReadAll(io.LimitReader(file, ocr.MaxImageSize+1))
	if err != nil {
		return nil, &models.APIError{Code: CodeInvalidImage, Message: "failed to read image"}
	}
	if len(data) == 0 {
		return nil, &models.APIError{Code: CodeInvalidImage, Message: ocr.ErrEmptyImage.Error()}
	}
	if len(data) > ocr.MaxImageSize {
		return nil, &models.APIError{Code: CodeInvalidImage, Message: ocr.ErrImageTooLarge.Error()}
	}
	return data, nil
}

// SimilarBooks ranks catalog rows by content similarity to the q parameter.
func (h *Handler) SimilarBooks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	k, ok := getIntParam(r, "k", defaultSimilarResults)
	if !ok {
		respondValidation(w, invalidParam("k"))
		return
	}
	req := models.SimilarBooksRequest{Query: r.URL.Query().Get("q"), K: k}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	recs, err := h.engine.SimilarToText(r.Context(), req.Query, req.K)
	if err != nil && !errors.Is(err, recommend.ErrEmptyCorpus) {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, models.SimilarBooksResponse{
		Query:   req.Query,
		Results: summarizeRecommendations(recs),
	}, start)
}

// Books lists the catalog in source order, booksPageSize rows per page.
// Pages are 1-based; a page past the end returns an empty list.
func (h *Handler) Books(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	page, ok := getIntParam(r, "page", 1)
	if !ok || page < 1 {
		respondValidation(w, &models.APIError{
			Code:    CodeValidation,
			Message: "page must be a positive integer",
			Details: map[string]interface{}{"field": "page"},
		})
		return
	}

	snap := h.engine.Snapshot()
	if snap == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeNotReady, "no catalog snapshot has been loaded", nil)
		return
	}

	books := snap.Books()
	total := len(books)
	resp := models.BookPage{
		Page:       page,
		PageSize:   booksPageSize,
		TotalBooks: total,
		TotalPages: (total + booksPageSize - 1) / booksPageSize,
		Books:      []models.BookSummary{},
	}
	if page <= resp.TotalPages {
		from := (page - 1) * booksPageSize
		to := min(from+booksPageSize, total)
		for i := from; i < to; i++ {
			resp.Books = append(resp.Books, summarize(i, &books[i]))
		}
	}

	respondSuccess(w, http.StatusOK, resp, start)
}
