// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package events carries recommendation email requests from the HTTP API to
// the notification consumer over Watermill.
//
// Two backends are available:
//
//   - memory: an in-process gochannel pub/sub. Messages published while no
//     consumer is subscribed are dropped.
//   - nats: NATS JetStream through watermill-nats, optionally backed by an
//     embedded nats-server. Requires the nats build tag.
//
// Messages are JSON encoded NotificationRequest values keyed by request ID.
// The Consumer acks a message once it has been delivered or has failed
// permanently, and nacks it after a transient failure so it is redelivered.
package events
