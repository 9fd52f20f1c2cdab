// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

//go:build integration

package notify

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/testinfra"
)

func TestNotifier_Mailpit(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mailpit, err := testinfra.NewMailpitContainer(ctx)
	if err != nil {
		t.Fatalf("start mailpit: %v", err)
	}
	defer testinfra.CleanupContainer(t, context.Background(), mailpit)

	ch := NewEmailChannel(SMTPConfig{
		Host:    mailpit.SMTPHost,
		Port:    mailpit.SMTPPort,
		From:    "books@example.com",
		Timeout: 10 * time.Second,
	})
	n := NewNotifier(ch, testConfig("test-mailpit"), zerolog.Nop())

	result, err := n.Notify(ctx, testRequest())
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("Notify() failed: %s (%s)", result.ErrorMessage, result.ErrorCode)
	}

	msgs, err := mailpit.WaitForMessages(ctx, 1, 15*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	got := msgs[0]
	if got.Subject != Subject("Java Programming") {
		t.Errorf("Subject = %q", got.Subject)
	}
	if len(got.To) != 1 || got.To[0].Address != "ada@example.com" {
		t.Errorf("To = %+v", got.To)
	}
	if got.From.Name != DefaultTeamName {
		t.Errorf("From.Name = %q", got.From.Name)
	}
}
