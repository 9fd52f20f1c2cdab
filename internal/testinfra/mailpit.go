// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMailpitImage is the Mailpit SMTP capture server image.
	DefaultMailpitImage = "axllent/mailpit:latest"

	mailpitSMTPPort = "1025"
	mailpitHTTPPort = "8025"
)

// MailpitContainer is a running Mailpit instance that accepts any SMTP
// message and exposes the captured mail over its HTTP API.
type MailpitContainer struct {
	testcontainers.Container
	SMTPHost string
	SMTPPort int
	APIURL   string
}

// MailpitMessage is the summary Mailpit reports for a captured message.
type MailpitMessage struct {
	ID      string `json:"ID"`
	Subject string `json:"Subject"`
	From    struct {
		Name    string `json:"Name"`
		Address string `json:"Address"`
	} `json:"From"`
	To []struct {
		Name    string `json:"Name"`
		Address string `json:"Address"`
	} `json:"To"`
}

// NewMailpitContainer starts Mailpit and waits for both ports.
func NewMailpitContainer(ctx context.Context) (*MailpitContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultMailpitImage,
		ExposedPorts: []string{mailpitSMTPPort + "/tcp", mailpitHTTPPort + "/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(mailpitSMTPPort+"/tcp"),
			wait.ForHTTP("/api/v1/info").WithPort(mailpitHTTPPort+"/tcp"),
		).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create mailpit container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	smtpPort, err := container.MappedPort(ctx, mailpitSMTPPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped smtp port: %w", err)
	}
	httpPort, err := container.MappedPort(ctx, mailpitHTTPPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped http port: %w", err)
	}

	port, err := strconv.Atoi(smtpPort.Port())
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("parse smtp port: %w", err)
	}

	return &MailpitContainer{
		Container: container,
		SMTPHost:  host,
		SMTPPort:  port,
		APIURL:    fmt.Sprintf("http://%s:%s", host, httpPort.Port()),
	}, nil
}

// Messages lists the messages Mailpit has captured, newest first.
func (m *MailpitContainer) Messages(ctx context.Context) ([]MailpitMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.APIURL+"/api/v1/messages", http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list mailpit messages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list mailpit messages: status %d", resp.StatusCode)
	}

	var body struct {
		Messages []MailpitMessage `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode mailpit messages: %w", err)
	}
	return body.Messages, nil
}

// WaitForMessages polls until at least n messages were captured.
func (m *MailpitContainer) WaitForMessages(ctx context.Context, n int, timeout time.Duration) ([]MailpitMessage, error) {
	deadline := time.Now().Add(timeout)
	for {
		msgs, err := m.Messages(ctx)
		if err == nil && len(msgs) >= n {
			return msgs, nil
		}
		if time.Now().After(deadline) {
			return msgs, fmt.Errorf("timed out waiting for %d messages (have %d): %v", n, len(msgs), err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}
