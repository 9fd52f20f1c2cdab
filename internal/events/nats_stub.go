// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

//go:build !nats

package events

import (
	"errors"

	"github.com/rs/zerolog"
)

// ErrNATSUnavailable is returned when the binary was built without NATS support.
var ErrNATSUnavailable = errors.New("NATS event backend not available: build with -tags=nats")

// NewNATSBus returns ErrNATSUnavailable. Build with -tags=nats to enable it.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewNATSBus(_ NATSConfig, _ zerolog.Logger) (*Bus, error) {
	return nil, ErrNATSUnavailable
}
