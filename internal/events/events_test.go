// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package events

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
)

func TestNotificationRequest_RoundTrip(t *testing.T) {
	t.Parallel()

	req := NewNotificationRequest("ada", "ada@example.com", "Dune", []string{"Dune Messiah"})
	if req.ID == "" || req.RequestedAt.IsZero() {
		t.Fatalf("NewNotificationRequest() = %+v, want ID and timestamp", req)
	}

	payload, err := req.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(payload), `"matched_title":"Dune"`) {
		t.Errorf("payload = %s", payload)
	}

	got, err := DecodeNotificationRequest(payload)
	if err != nil {
		t.Fatalf("DecodeNotificationRequest() error = %v", err)
	}
	if got.ID != req.ID || got.Email != req.Email || len(got.Titles) != 1 {
		t.Errorf("decoded %+v, want %+v", got, req)
	}

	nr := got.NotifyRequest()
	if nr.ID != req.ID || nr.MatchedTitle != "Dune" || nr.Username != "ada" {
		t.Errorf("NotifyRequest() = %+v", nr)
	}
}

func TestDecodeNotificationRequest_Invalid(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{`not json`, `{"username":"ada"}`, ``} {
		if _, err := DecodeNotificationRequest([]byte(payload)); !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("DecodeNotificationRequest(%q) error = %v, want ErrInvalidPayload", payload, err)
		}
	}
}

func TestLoggerAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	adapter := NewLoggerAdapter(zerolog.New(&buf).Level(zerolog.TraceLevel))

	adapter.With(watermill.LogFields{"topic": "notify.recommendations"}).
		Info("subscribed", watermill.LogFields{"consumer": "folio"})
	adapter.Error("publish failed", errors.New("boom"), nil)
	adapter.Trace("tick", nil)

	out := buf.String()
	for _, want := range []string{
		`"component":"watermill"`,
		`"topic":"notify.recommendations"`,
		`"consumer":"folio"`,
		`"message":"subscribed"`,
		`"error":"boom"`,
		`"level":"trace"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	t.Parallel()

	bus := NewMemoryBus("", zerolog.Nop())
	defer bus.Close()

	if bus.Topic() != DefaultTopic || bus.Backend() != BackendMemory {
		t.Errorf("Topic() = %s, Backend() = %s", bus.Topic(), bus.Backend())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
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
		if msg.UUID != req.ID {
			t.Errorf("UUID = %s, want %s", msg.UUID, req.ID)
		}
		if msg.Metadata.Get("username") != "ada" {
			t.Errorf("username metadata = %q", msg.Metadata.Get("username"))
		}
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}
}

func TestBus_Closed(t *testing.T) {
	t.Parallel()

	bus := NewMemoryBus("test.closed", zerolog.Nop())
	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	err := bus.Publish(context.Background(), NewNotificationRequest("ada", "ada@example.com", "Dune", []string{"x"}))
	if !errors.Is(err, ErrBusClosed) {
		t.Errorf("Publish() error = %v, want ErrBusClosed", err)
	}
	if _, err := bus.Subscribe(context.Background()); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Subscribe() error = %v, want ErrBusClosed", err)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	bus, err := Open(Options{Backend: BackendMemory, Topic: "custom.topic"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	defer bus.Close()
	if bus.Topic() != "custom.topic" {
		t.Errorf("Topic() = %s", bus.Topic())
	}

	if _, err := Open(Options{Backend: "kafka"}, zerolog.Nop()); err == nil {
		t.Error("Open(kafka) should fail")
	}
}

func TestNATSConfig_ListenAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url      string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"nats://127.0.0.1:4222", "127.0.0.1", 4222, false},
		{"nats://0.0.0.0:0", "0.0.0.0", -1, false},
		{"nats://localhost", "", 0, true},
		{"nats://localhost:abc", "", 0, true},
		{"nats://%zz", "", 0, true},
	}
	for _, tt := range tests {
		host, port, err := NATSConfig{URL: tt.url}.listenAddress()
		if (err != nil) != tt.wantErr {
			t.Errorf("listenAddress(%s) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (host != tt.wantHost || port != tt.wantPort) {
			t.Errorf("listenAddress(%s) = %s:%d", tt.url, host, port)
		}
	}

	cfg := NATSConfig{}.withDefaults()
	if cfg.StreamName == "" || cfg.Topic != DefaultTopic || cfg.MaxDeliver != 10 {
		t.Errorf("withDefaults() = %+v", cfg)
	}
}

// publishRaw publishes an arbitrary payload, bypassing request encoding.
func publishRaw(t *testing.T, bus *Bus, payload []byte) {
	t.Helper()
	if err := bus.publisher.Publish(bus.topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		t.Fatalf("publish raw: %v", err)
	}
}
