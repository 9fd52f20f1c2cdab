// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

//go:build nats

package events

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNATSBus_Embedded(t *testing.T) {
	cfg := DefaultNATSConfig()
	cfg.URL = "nats://127.0.0.1:0"
	cfg.StoreDir = t.TempDir()
	cfg.AckWait = 5 * time.Second

	bus, err := NewNATSBus(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewNATSBus() error = %v", err)
	}
	defer bus.Close()

	if bus.Backend() != BackendNATS {
		t.Errorf("Backend() = %s", bus.Backend())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	messages, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	req := NewNotificationRequest("ada", "ada@example.com", "Dune", []string{"Dune Messiah"})
	if err := bus.Publish(ctx, req); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case msg := <-messages:
		got, err := DecodeNotificationRequest(msg.Payload)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != req.ID || got.MatchedTitle != "Dune" {
			t.Errorf("received %+v", got)
		}
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("message not delivered over JetStream")
	}
}
