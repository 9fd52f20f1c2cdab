// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/metrics"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendNATS   = "nats"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus is closed")

// Bus publishes and subscribes notification requests on one topic.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	topic      string
	backend    string
	// shared is set when publisher and subscriber are the same pubsub.
	shared bool

	mu      sync.RWMutex
	closed  bool
	onClose []func() error
}

// Options selects and configures a bus backend.
type Options struct {
	Backend string
	Topic   string
	NATS    NATSConfig
}

// Open creates the bus named by opts.Backend.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(opts Options, logger zerolog.Logger) (*Bus, error) {
	if opts.Topic == "" {
		opts.Topic = DefaultTopic
	}
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryBus(opts.Topic, logger), nil
	case BackendNATS:
		cfg := opts.NATS
		cfg.Topic = opts.Topic
		return NewNATSBus(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown event backend %q", opts.Backend)
	}
}

// NewMemoryBus creates an in-process bus.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewMemoryBus(topic string, logger zerolog.Logger) *Bus {
	return newMemoryBus(topic, logger, gochannel.Config{OutputChannelBuffer: 64})
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newMemoryBus(topic string, logger zerolog.Logger, cfg gochannel.Config) *Bus {
	if topic == "" {
		topic = DefaultTopic
	}
	pubsub := gochannel.NewGoChannel(cfg, NewLoggerAdapter(logger))

	return &Bus{
		publisher:  pubsub,
		subscriber: pubsub,
		topic:      topic,
		backend:    BackendMemory,
		shared:     true,
	}
}

// Topic returns the topic the bus publishes on.
func (b *Bus) Topic() string {
	return b.topic
}

// Backend returns the backend name.
func (b *Bus) Backend() string {
	return b.backend
}

// Publish sends req to the topic.
func (b *Bus) Publish(ctx context.Context, req *NotificationRequest) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	payload, err := req.Marshal()
	if err != nil {
		return fmt.Errorf("encode notification request: %w", err)
	}

	msg := message.NewMessage(req.ID, payload)
	msg.Metadata.Set("username", req.Username)
	msg.SetContext(ctx)

	if err := b.publisher.Publish(b.topic, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", b.topic, err)
	}
	metrics.RecordEventPublished()
	return nil
}

// Subscribe returns the message stream for the topic. The channel closes
// when ctx ends or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrBusClosed
	}
	return b.subscriber.Subscribe(ctx, b.topic)
}

// Close shuts down the publisher, the subscriber and any embedded server.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if !b.shared {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	for i := len(b.onClose) - 1; i >= 0; i-- {
		if err := b.onClose[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
