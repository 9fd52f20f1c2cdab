// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func newOllamaServer(t *testing.T, status int, response string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/api/generate" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Model != "test-vision" || req.Stream || req.Options.Temperature != 0 {
			http.Error(w, "unexpected request options", http.StatusBadRequest)
			return
		}
		if len(req.Images) != 1 || req.Images[0] != base64.StdEncoding.EncodeToString(pngHeader) {
			http.Error(w, "image not attached", http.StatusBadRequest)
			return
		}

		if status != http.StatusOK {
			http.Error(w, "model crashed", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(generateResponse{Response: response})
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestOllamaExtractor_ExtractText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		wantText string
		wantOK   bool
	}{
		{"single line", "Java Programming", "Java Programming", true},
		{"multi line", "  The Hobbit\nor There and Back Again \n", "The Hobbit or There and Back Again", true},
		{"empty", "   ", "", false},
		{"marker", "NO_TEXT", "", false},
		{"marker with punctuation", "no_text.", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server, _ := newOllamaServer(t, http.StatusOK, tt.response)
			e := NewOllamaExtractor(Config{URL: server.URL + "/", Model: "test-vision"}, zerolog.Nop())

			text, ok, err := e.ExtractText(context.Background(), pngHeader)
			if err != nil {
				t.Fatalf("ExtractText() error = %v", err)
			}
			if text != tt.wantText || ok != tt.wantOK {
				t.Errorf("ExtractText() = (%q, %v), want (%q, %v)", text, ok, tt.wantText, tt.wantOK)
			}
		})
	}
}

func TestOllamaExtractor_InvalidImage(t *testing.T) {
	t.Parallel()

	server, calls := newOllamaServer(t, http.StatusOK, "unused")
	e := NewOllamaExtractor(Config{URL: server.URL, Model: "test-vision"}, zerolog.Nop())

	if _, _, err := e.ExtractText(context.Background(), nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty image error = %v, want ErrEmptyImage", err)
	}
	if _, _, err := e.ExtractText(context.Background(), make([]byte, MaxImageSize+1)); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("large image error = %v, want ErrImageTooLarge", err)
	}
	if calls.Load() != 0 {
		t.Errorf("server called %d times for rejected images", calls.Load())
	}
}

func TestOllamaExtractor_CircuitOpens(t *testing.T) {
	t.Parallel()

	server, calls := newOllamaServer(t, http.StatusInternalServerError, "")
	e := NewOllamaExtractor(Config{URL: server.URL, Model: "test-vision"}, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, _, err := e.ExtractText(context.Background(), pngHeader)
		if err == nil || errors.Is(err, ErrUnavailable) {
			t.Fatalf("attempt %d error = %v, want upstream error", i, err)
		}
	}

	_, _, err := e.ExtractText(context.Background(), pngHeader)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error after repeated failures = %v, want ErrUnavailable", err)
	}
	if calls.Load() != 3 {
		t.Errorf("server calls = %d, want 3", calls.Load())
	}
}

func TestOllamaExtractor_CanceledRequestsKeepCircuitClosed(t *testing.T) {
	t.Parallel()

	server, calls := newOllamaServer(t, http.StatusInternalServerError, "")
	e := NewOllamaExtractor(Config{URL: server.URL, Model: "test-vision"}, zerolog.Nop())

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		_, _, err := e.ExtractText(canceled, pngHeader)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("attempt %d error = %v, want context.Canceled", i, err)
		}
	}

	_, _, err := e.ExtractText(context.Background(), pngHeader)
	if err == nil || errors.Is(err, ErrUnavailable) {
		t.Fatalf("error after canceled requests = %v, want upstream error", err)
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d, want 1", calls.Load())
	}
}

func TestNewOllamaExtractor_Defaults(t *testing.T) {
	t.Parallel()

	e := NewOllamaExtractor(Config{}, zerolog.Nop())
	if e.url != "http://localhost:11434/api/generate" {
		t.Errorf("url = %s", e.url)
	}
	if e.model != "llama3.2-vision" {
		t.Errorf("model = %s", e.model)
	}
	if e.client.Timeout <= 0 {
		t.Error("client timeout should be set")
	}
}
