// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package events

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// NATSConfig configures the JetStream backend.
type NATSConfig struct {
	// URL of the NATS server. With Embedded set, the embedded server
	// listens on this URL's host and port.
	URL string

	// Embedded starts an in-process nats-server with JetStream enabled.
	Embedded bool

	// StoreDir is the JetStream storage directory of the embedded server.
	StoreDir string

	Topic       string
	StreamName  string
	DurableName string
	QueueGroup  string
	AckWait     time.Duration
	MaxDeliver  int
	MaxAge      time.Duration
}

// DefaultNATSConfig returns defaults for a single-instance deployment.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:         "nats://127.0.0.1:4222",
		Embedded:    true,
		StoreDir:    "data/nats",
		Topic:       DefaultTopic,
		StreamName:  "FOLIO_NOTIFICATIONS",
		DurableName: "folio-notifier",
		QueueGroup:  "folio",
		AckWait:     time.Minute,
		MaxDeliver:  10,
		MaxAge:      7 * 24 * time.Hour,
	}
}

// withDefaults fills zero fields from DefaultNATSConfig.
func (c NATSConfig) withDefaults() NATSConfig {
	d := DefaultNATSConfig()
	if c.URL == "" {
		c.URL = d.URL
	}
	if c.StoreDir == "" {
		c.StoreDir = d.StoreDir
	}
	if c.Topic == "" {
		c.Topic = d.Topic
	}
	if c.StreamName == "" {
		c.StreamName = d.StreamName
	}
	if c.DurableName == "" {
		c.DurableName = d.DurableName
	}
	if c.QueueGroup == "" {
		c.QueueGroup = d.QueueGroup
	}
	if c.AckWait <= 0 {
		c.AckWait = d.AckWait
	}
	if c.MaxDeliver == 0 {
		c.MaxDeliver = d.MaxDeliver
	}
	if c.MaxAge <= 0 {
		c.MaxAge = d.MaxAge
	}
	return c
}

// listenAddress returns the host and port of c.URL. Port 0 maps to -1,
// which asks the embedded server for a random port.
func (c NATSConfig) listenAddress() (string, int, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", 0, fmt.Errorf("parse NATS URL: %w", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		return "", 0, fmt.Errorf("NATS URL %q needs host:port: %w", c.URL, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid NATS port %q: %w", portStr, err)
	}
	if port == 0 {
		port = -1
	}
	return host, port, nil
}
