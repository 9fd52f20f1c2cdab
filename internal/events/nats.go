// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

//go:build nats

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

// NewNATSBus creates a JetStream backed bus. The stream is created or
// updated before the publisher and subscriber bind to it, because stream
// names cannot contain the dots used in topics.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewNATSBus(cfg NATSConfig, logger zerolog.Logger) (*Bus, error) {
	cfg = cfg.withDefaults()
	wmLogger := NewLoggerAdapter(logger)

	bus := &Bus{topic: cfg.Topic, backend: BackendNATS}
	clientURL := cfg.URL

	if cfg.Embedded {
		ns, err := startEmbeddedServer(cfg)
		if err != nil {
			return nil, err
		}
		clientURL = ns.ClientURL()
		bus.onClose = append(bus.onClose, func() error {
			ns.Shutdown()
			ns.WaitForShutdown()
			return nil
		})
		logger.Info().Str("url", clientURL).Str("store_dir", cfg.StoreDir).Msg("embedded NATS server started")
	}

	fail := func(err error) (*Bus, error) {
		for i := len(bus.onClose) - 1; i >= 0; i-- {
			_ = bus.onClose[i]() //nolint:errcheck // best effort cleanup
		}
		return nil, err
	}

	if err := ensureStream(clientURL, cfg); err != nil {
		return fail(err)
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				wmLogger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			wmLogger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         clientURL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, wmLogger)
	if err != nil {
		return fail(fmt.Errorf("create watermill publisher: %w", err))
	}
	bus.publisher = pub

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              clientURL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: 1,
		AckWaitTimeout:   cfg.AckWait,
		CloseTimeout:     30 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			AckAsync:      false,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.BindStream(cfg.StreamName),
				natsgo.MaxDeliver(cfg.MaxDeliver),
				natsgo.AckWait(cfg.AckWait),
				natsgo.DeliverAll(),
			},
			DurablePrefix: cfg.DurableName,
		},
	}, wmLogger)
	if err != nil {
		_ = pub.Close() //nolint:errcheck // best effort cleanup
		return fail(fmt.Errorf("create watermill subscriber: %w", err))
	}
	bus.subscriber = sub

	return bus, nil
}

func startEmbeddedServer(cfg NATSConfig) (*server.Server, error) {
	host, port, err := cfg.listenAddress()
	if err != nil {
		return nil, err
	}

	ns, err := server.NewServer(&server.Options{
		ServerName: "folio-events",
		Host:       host,
		Port:       port,
		JetStream:  true,
		StoreDir:   cfg.StoreDir,
		NoLog:      true,
		NoSigs:     true,
		MaxPayload: 1024 * 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(30 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within timeout")
	}
	return ns, nil
}

// ensureStream creates the stream holding the topic, or updates it in place.
func ensureStream(clientURL string, cfg NATSConfig) error {
	nc, err := natsgo.Connect(clientURL, natsgo.Timeout(10*time.Second))
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       cfg.StreamName,
		Subjects:   []string{cfg.Topic},
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     cfg.MaxAge,
		Storage:    jetstream.FileStorage,
		Duplicates: 2 * time.Minute,
	})
	if err != nil {
		return fmt.Errorf("ensure stream %s: %w", cfg.StreamName, err)
	}
	return nil
}
