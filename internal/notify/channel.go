// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package notify delivers recommendation emails.
//
// A Channel performs a single delivery attempt and reports the outcome as a
// Result with a machine-readable error code and a transient flag. The Notifier
// wraps a Channel with input validation, send pacing, a circuit breaker and
// retries with exponential backoff for transient failures.
//
// Security:
//   - Credentials are never logged
//   - STARTTLS with TLS 1.2 minimum when enabled
//   - Template values are HTML-escaped
package notify

import (
	"context"
	"fmt"
	"net/mail"
	"time"
)

// Channel delivers a rendered message to one recipient.
type Channel interface {
	// Name returns the channel identifier.
	Name() string

	// Send makes one delivery attempt. Delivery failures are reported in the
	// Result; the error return is reserved for failures outside the delivery
	// itself.
	Send(ctx context.Context, env *Envelope) (*Result, error)
}

// Envelope is a rendered message addressed to one recipient.
type Envelope struct {
	// MessageID identifies the notification request across retries.
	MessageID string
	To        string
	Message   Message
}

// Result contains the result of a delivery attempt.
type Result struct {
	// Success indicates if delivery was successful.
	Success bool

	// Recipient is the recipient address.
	Recipient string

	// DeliveredAt is when delivery succeeded.
	DeliveredAt *time.Time

	// ErrorMessage contains error details if failed.
	ErrorMessage string

	// ErrorCode is a machine-readable error code.
	ErrorCode string

	// IsTransient indicates if the error is transient (can be retried).
	IsTransient bool

	// RetryCount is the number of retry attempts made.
	RetryCount int
}

// Error codes for delivery failures.
const (
	ErrorCodeInvalidConfig     = "INVALID_CONFIG"
	ErrorCodeInvalidRecipient  = "INVALID_RECIPIENT"
	ErrorCodeConnectionFailed  = "CONNECTION_FAILED"
	ErrorCodeAuthFailed        = "AUTH_FAILED"
	ErrorCodeRateLimited       = "RATE_LIMITED"
	ErrorCodeContentTooLarge   = "CONTENT_TOO_LARGE"
	ErrorCodeRecipientNotFound = "RECIPIENT_NOT_FOUND"
	ErrorCodeServerError       = "SERVER_ERROR"
	ErrorCodeTimeout           = "TIMEOUT"
	ErrorCodeCircuitOpen       = "CIRCUIT_OPEN"
	ErrorCodeCanceled          = "CANCELED"
	ErrorCodeUnknown           = "UNKNOWN"
)

// IsTransient reports whether a failure with code may succeed on retry.
func IsTransient(code string) bool {
	switch code {
	case ErrorCodeConnectionFailed, ErrorCodeTimeout, ErrorCodeRateLimited,
		ErrorCodeServerError, ErrorCodeCircuitOpen:
		return true
	default:
		return false
	}
}

// SMTPConfig holds the SMTP server and sender settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	UseTLS   bool
	Timeout  time.Duration
}

// Validate checks that the SMTP configuration is usable.
func (c SMTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.Port)
	}
	if c.From == "" {
		return fmt.Errorf("SMTP from address is required")
	}
	if _, err := mail.ParseAddress(c.From); err != nil {
		return fmt.Errorf("invalid SMTP from address: %w", err)
	}
	return nil
}
