// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package notify

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/folio/internal/metrics"
)

// Notification outcome labels for metrics.
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusRetried  = "retried"
	StatusRejected = "rejected"
)

// ErrInvalidRequest is returned for requests that can never be delivered.
var ErrInvalidRequest = errors.New("invalid notification request")

// errTransientDelivery marks a transient failure so the breaker counts it.
var errTransientDelivery = errors.New("transient delivery failure")

// Request asks for a recommendation email to be sent.
type Request struct {
	ID           string
	Username     string
	Email        string
	MatchedTitle string
	Titles       []string
}

// Config contains configuration for the Notifier.
type Config struct {
	// MaxRetries is the maximum number of retry attempts for transient errors.
	MaxRetries int

	// BaseDelay is the initial delay between retries.
	BaseDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	MaxDelay time.Duration

	// RatePerSecond paces delivery attempts across all requests.
	RatePerSecond float64

	// Burst is the number of attempts allowed without waiting.
	Burst int

	// Breaker configures the circuit breaker around the channel.
	Breaker BreakerConfig
}

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Allowed in half-open state
	Interval         time.Duration // Reset interval for counts
	Timeout          time.Duration // Time to stay open
	FailureThreshold uint32        // Consecutive failures before opening
}

// DefaultConfig returns a default notifier configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    3,
		BaseDelay:     time.Second,
		MaxDelay:      30 * time.Second,
		RatePerSecond: 1,
		Burst:         1,
		Breaker: BreakerConfig{
			Name:             "smtp",
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// Notifier sends recommendation emails through a Channel with pacing,
// circuit breaking and retries.
type Notifier struct {
	channel    Channel
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*Result]
	logger     zerolog.Logger
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// NewNotifier creates a notifier that delivers through channel.
func NewNotifier(channel Channel, cfg Config, logger zerolog.Logger) *Notifier {
	defaults := DefaultConfig()
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaults.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = defaults.MaxDelay
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaults.RatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = defaults.Breaker
	}

	log := logger.With().Str("component", "notifier").Str("channel", channel.Name()).Logger()
	return &Notifier{
		channel:    channel,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		breaker:    newBreaker(cfg.Breaker, log),
		logger:     log,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		maxDelay:   cfg.MaxDelay,
	}
}

func newBreaker(cfg BreakerConfig, logger zerolog.Logger) *gobreaker.CircuitBreaker[*Result] {
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	return gobreaker.NewCircuitBreaker[*Result](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Permanent failures say nothing about the server's health.
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, errTransientDelivery)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	})
}

// BreakerState returns the circuit breaker state name.
func (n *Notifier) BreakerState() string {
	return n.breaker.State().String()
}

// Notify renders and delivers the recommendation email for req. The returned
// Result describes the final attempt. The error is non-nil only when the
// request is invalid or ctx ends before delivery finished.
func (n *Notifier) Notify(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		metrics.RecordNotification(StatusRejected)
		return nil, err
	}

	msg, err := Render(req.Username, req.MatchedTitle, req.Titles)
	if err != nil {
		metrics.RecordNotification(StatusRejected)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	env := &Envelope{MessageID: req.ID, To: req.Email, Message: msg}

	var last *Result
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			delay := n.backoff(attempt)
			n.logger.Debug().
				Str("notification_id", req.ID).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("retrying delivery after delay")
			metrics.RecordNotification(StatusRetried)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return n.canceled(req, attempt, ctx.Err())
			case <-timer.C:
			}
		}

		if err := n.limiter.Wait(ctx); err != nil {
			return n.canceled(req, attempt, err)
		}

		last = n.attempt(ctx, env)
		last.RetryCount = attempt

		if last.Success {
			metrics.RecordNotification(StatusSent)
			n.logger.Info().
				Str("notification_id", req.ID).
				Str("username", req.Username).
				Int("titles", len(req.Titles)).
				Int("retries", attempt).
				Msg("recommendation email delivered")
			return last, nil
		}

		if !last.IsTransient {
			n.logger.Warn().
				Str("notification_id", req.ID).
				Str("error_code", last.ErrorCode).
				Str("error", last.ErrorMessage).
				Msg("permanent delivery error, not retrying")
			break
		}

		n.logger.Debug().
			Str("notification_id", req.ID).
			Str("error_code", last.ErrorCode).
			Int("attempt", attempt).
			Msg("transient delivery error")
	}

	metrics.RecordNotification(StatusFailed)
	return last, nil
}

// attempt makes one delivery through the breaker.
func (n *Notifier) attempt(ctx context.Context, env *Envelope) *Result {
	result, err := n.breaker.Execute(func() (*Result, error) {
		res, err := n.channel.Send(ctx, env)
		if err != nil {
			return nil, err
		}
		if !res.Success && res.IsTransient {
			return res, errTransientDelivery
		}
		return res, nil
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &Result{
			Recipient:    env.To,
			ErrorMessage: err.Error(),
			ErrorCode:    ErrorCodeCircuitOpen,
			IsTransient:  true,
		}
	case result != nil:
		return result
	case err != nil:
		return &Result{
			Recipient:    env.To,
			ErrorMessage: err.Error(),
			ErrorCode:    ErrorCodeUnknown,
		}
	default:
		return &Result{Recipient: env.To, ErrorCode: ErrorCodeUnknown, ErrorMessage: "channel returned no result"}
	}
}

func (n *Notifier) canceled(req Request, attempt int, err error) (*Result, error) {
	metrics.RecordNotification(StatusFailed)
	return &Result{
		Recipient:    req.Email,
		ErrorMessage: "delivery canceled",
		ErrorCode:    ErrorCodeCanceled,
		IsTransient:  true,
		RetryCount:   attempt,
	}, err
}

// backoff calculates the delay before the next retry attempt:
// baseDelay * 2^(attempt-1), capped at maxDelay.
func (n *Notifier) backoff(attempt int) time.Duration {
	delay := n.baseDelay << uint(attempt-1)
	if delay <= 0 || delay > n.maxDelay {
		delay = n.maxDelay
	}
	return delay
}

func validateRequest(req Request) error {
	if req.Username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidRequest, req.Email)
	}
	if req.MatchedTitle == "" {
		return fmt.Errorf("%w: matched title is required", ErrInvalidRequest)
	}
	if len(req.Titles) == 0 {
		return fmt.Errorf("%w: no recommendations to send", ErrInvalidRequest)
	}
	return nil
}
