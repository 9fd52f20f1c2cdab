// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package testinfra provides container-backed infrastructure for integration tests.
//
// Everything here is behind the integration build tag and uses testcontainers-go.
//
// # Mailpit Container
//
// MailpitContainer runs an SMTP capture server so the email channel can be
// exercised end to end:
//
//	func TestDelivery(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mailpit, err := testinfra.NewMailpitContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mailpit)
//
//	    ch := notify.NewEmailChannel(notify.SMTPConfig{
//	        Host: mailpit.SMTPHost,
//	        Port: mailpit.SMTPPort,
//	        From: "books@example.com",
//	    })
//	    // send, then mailpit.WaitForMessages(ctx, 1, 10*time.Second)
//	}
//
// Tests are skipped when Docker is unavailable. The first run may need to
// pull the image.
package testinfra
