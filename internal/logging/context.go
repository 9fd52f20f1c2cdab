// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	correlationIDKey
	loggerKey
)

// NewRequestID returns a random UUID string.
func NewRequestID() string {
	return uuid.NewString()
}

// NewCorrelationID returns a short random ID for tying related log lines
// together, such as an API request and the notification it enqueued.
func NewCorrelationID() string {
	return uuid.NewString()[:8]
}

// ContextWithRequestID stores a request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the stored request ID or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ContextWithCorrelationID stores a correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the stored correlation ID or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// ContextWithLogger stores a logger for Ctx to use instead of the global one.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Ctx returns the context's logger (or the global logger) with request_id and
// correlation_id attached when present.
func Ctx(ctx context.Context) *zerolog.Logger {
	l, ok := ctx.Value(loggerKey).(zerolog.Logger)
	if !ok {
		l = Logger()
	}

	zc := l.With()
	if id := RequestIDFromContext(ctx); id != "" {
		zc = zc.Str("request_id", id)
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		zc = zc.Str("correlation_id", id)
	}
	out := zc.Logger()
	return &out
}
