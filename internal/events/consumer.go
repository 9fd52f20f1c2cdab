// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/notify"
)

// Consumption outcome labels for metrics.
const (
	ResultDelivered = "delivered"
	ResultFailed    = "failed"
	ResultRejected  = "rejected"
	ResultRetry     = "retry"
)

const defaultRedeliveryDelay = 5 * time.Second

// Sender delivers one notification. *notify.Notifier implements it.
type Sender interface {
	Notify(ctx context.Context, req notify.Request) (*notify.Result, error)
}

// Subscriber is the subscribe half of a Bus.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

// Consumer reads notification requests and hands them to a Sender.
// It implements suture.Service.
type Consumer struct {
	subscriber      Subscriber
	sender          Sender
	logger          zerolog.Logger
	redeliveryDelay time.Duration
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithRedeliveryDelay sets how long a transiently failed message is held
// before it is nacked for redelivery.
func WithRedeliveryDelay(d time.Duration) ConsumerOption {
	return func(c *Consumer) {
		c.redeliveryDelay = d
	}
}

// NewConsumer creates a consumer.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewConsumer(subscriber Subscriber, sender Sender, logger zerolog.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		subscriber:      subscriber,
		sender:          sender,
		logger:          logger.With().Str("component", "notification-consumer").Logger(),
		redeliveryDelay: defaultRedeliveryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Serve consumes until ctx ends.
func (c *Consumer) Serve(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	c.logger.Info().Msg("notification consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("message channel closed")
			}
			c.handle(ctx, msg)
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (c *Consumer) String() string {
	return "notification-consumer"
}

func (c *Consumer) handle(ctx context.Context, msg *message.Message) {
	req, err := DecodeNotificationRequest(msg.Payload)
	if err != nil {
		c.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("dropping undecodable notification")
		metrics.RecordEventConsumed(ResultRejected)
		msg.Ack()
		return
	}

	log := c.logger.With().Str("notification_id", req.ID).Str("username", req.Username).Logger()

	result, err := c.sender.Notify(ctx, req.NotifyRequest())
	switch {
	case errors.Is(err, notify.ErrInvalidRequest):
		log.Warn().Err(err).Msg("dropping invalid notification")
		metrics.RecordEventConsumed(ResultRejected)
		msg.Ack()
	case err != nil:
		// ctx ended mid-delivery: leave the message for redelivery.
		log.Debug().Err(err).Msg("notification interrupted")
		metrics.RecordEventConsumed(ResultRetry)
		msg.Nack()
	case result.Success:
		metrics.RecordEventConsumed(ResultDelivered)
		msg.Ack()
	case !result.IsTransient:
		log.Warn().Str("error_code", result.ErrorCode).Str("error", result.ErrorMessage).
			Msg("notification failed permanently")
		metrics.RecordEventConsumed(ResultFailed)
		msg.Ack()
	default:
		log.Warn().Str("error_code", result.ErrorCode).Dur("redelivery_delay", c.redeliveryDelay).
			Msg("notification failed, scheduling redelivery")
		metrics.RecordEventConsumed(ResultRetry)
		c.wait(ctx)
		msg.Nack()
	}
}

func (c *Consumer) wait(ctx context.Context) {
	if c.redeliveryDelay <= 0 {
		return
	}
	timer := time.NewTimer(c.redeliveryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
