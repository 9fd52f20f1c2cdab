// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package ocr extracts book titles from cover images with a vision model
// served by Ollama.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/folio/internal/metrics"
)

// MaxImageSize is the largest image accepted for extraction.
const MaxImageSize = 10 << 20

// noTextMarker is what the prompt asks the model to answer for blank images.
const noTextMarker = "NO_TEXT"

const extractPrompt = `Read the text printed on this book cover or title page.
Reply with the visible text only, in reading order, on a single line.
Do not add commentary. If there is no readable text, reply with ` + noTextMarker + `.`

// OCR outcome labels for metrics.
const (
	StatusSuccess     = "success"
	StatusEmpty       = "empty"
	StatusError       = "error"
	StatusCircuitOpen = "circuit_open"
)

var (
	// ErrEmptyImage is returned for a zero-length image.
	ErrEmptyImage = errors.New("image is empty")
	// ErrImageTooLarge is returned for images over MaxImageSize.
	ErrImageTooLarge = errors.New("image exceeds maximum size")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("text extraction service unavailable")

	// errCallerDone marks a request abandoned by its caller so the breaker
	// does not count it against Ollama.
	errCallerDone = errors.New("request abandoned by caller")
)

// Extractor reads text from an image. ok is false when the image holds no
// readable text.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte) (text string, ok bool, err error)
}

// Config configures the Ollama extractor.
type Config struct {
	URL     string
	Model   string
	Timeout time.Duration
}

// OllamaExtractor calls the Ollama generate endpoint with the image attached.
type OllamaExtractor struct {
	url     string
	model   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	logger  zerolog.Logger
}

// NewOllamaExtractor creates an extractor for cfg.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewOllamaExtractor(cfg Config, logger zerolog.Logger) *OllamaExtractor {
	if cfg.URL == "" {
		cfg.URL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2-vision"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	log := logger.With().Str("component", "ocr").Str("model", cfg.Model).Logger()
	return &OllamaExtractor{
		url:     strings.TrimRight(cfg.URL, "/") + "/api/generate",
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: newBreaker(log),
		logger:  log,
	}
}

func newBreaker(logger zerolog.Logger) *gobreaker.CircuitBreaker[string] {
	const name = "ocr"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerDone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	})
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Images  []string        `json:"images"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// ExtractText implements Extractor.
func (e *OllamaExtractor) ExtractText(ctx context.Context, image []byte) (string, bool, error) {
	switch {
	case len(image) == 0:
		return "", false, ErrEmptyImage
	case len(image) > MaxImageSize:
		return "", false, ErrImageTooLarge
	}

	raw, err := e.breaker.Execute(func() (string, error) {
		return e.generate(ctx, image)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordOCR(StatusCircuitOpen)
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		metrics.RecordOCR(StatusError)
		return "", false, err
	}

	text := normalize(raw)
	if text == "" {
		metrics.RecordOCR(StatusEmpty)
		e.logger.Debug().Msg("no text found in image")
		return "", false, nil
	}

	metrics.RecordOCR(StatusSuccess)
	e.logger.Debug().Int("length", len(text)).Msg("extracted text from image")
	return text, true, nil
}

func (e *OllamaExtractor) generate(ctx context.Context, image []byte) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   e.model,
		Prompt:  extractPrompt,
		Images:  []string{base64.StdEncoding.EncodeToString(image)},
		Stream:  false,
		Options: generateOptions{Temperature: 0},
	})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("call ollama: %w: %w", errCallerDone, ctxErr)
		}
		return "", fmt.Errorf("call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best effort detail
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama error: %s", out.Error)
	}
	return out.Response, nil
}

// normalize joins the model's lines with spaces and drops the no-text marker.
func normalize(raw string) string {
	text := strings.Join(strings.Fields(raw), " ")
	if strings.EqualFold(strings.Trim(text, ".\"' "), noTextMarker) {
		return ""
	}
	return text
}
