// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

const defaultSMTPTimeout = 30 * time.Second

// EmailChannel implements email delivery via SMTP.
type EmailChannel struct {
	config SMTPConfig
	// tlsConfig overrides the STARTTLS configuration, for tests.
	tlsConfig *tls.Config
}

// NewEmailChannel creates an email channel for cfg.
func NewEmailChannel(cfg SMTPConfig) *EmailChannel {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSMTPTimeout
	}
	if cfg.FromName == "" {
		cfg.FromName = DefaultTeamName
	}
	return &EmailChannel{config: cfg}
}

// Name returns the channel identifier.
func (c *EmailChannel) Name() string {
	return "email"
}

// Send delivers the message via email.
func (c *EmailChannel) Send(ctx context.Context, env *Envelope) (*Result, error) {
	result := &Result{Recipient: env.To}

	if _, err := mail.ParseAddress(env.To); err != nil {
		result.ErrorMessage = fmt.Sprintf("invalid recipient address: %v", err)
		result.ErrorCode = ErrorCodeInvalidRecipient
		return result, nil //nolint:nilerr // Error is captured in result struct, not returned
	}

	if err := c.config.Validate(); err != nil {
		result.ErrorMessage = err.Error()
		result.ErrorCode = ErrorCodeInvalidConfig
		return result, nil //nolint:nilerr // Error is captured in result struct, not returned
	}

	msg, err := c.buildMessage(env)
	if err != nil {
		result.ErrorMessage = err.Error()
		result.ErrorCode = ErrorCodeUnknown
		return result, nil //nolint:nilerr // Error is captured in result struct, not returned
	}

	if err := c.sendSMTP(ctx, env.To, msg); err != nil {
		result.ErrorMessage = err.Error()
		result.ErrorCode = classifyEmailError(err)
		result.IsTransient = IsTransient(result.ErrorCode)
		return result, nil
	}

	now := time.Now()
	result.Success = true
	result.DeliveredAt = &now
	return result, nil
}

// buildMessage constructs a multipart/alternative message with a plaintext
// and an HTML part, both quoted-printable encoded.
func (c *EmailChannel) buildMessage(env *Envelope) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", env.Message.Text},
		{"text/html; charset=UTF-8", env.Message.HTML},
	}
	for _, part := range parts {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", part.contentType)
		header.Set("Content-Transfer-Encoding", "quoted-printable")
		w, err := mw.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("create mime part: %w", err)
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("encode mime part: %w", err)
		}
		if err := qp.Close(); err != nil {
			return nil, fmt.Errorf("encode mime part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	from := mail.Address{Name: c.config.FromName, Address: c.config.From}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from.String())
	fmt.Fprintf(&msg, "To: %s\r\n", env.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", env.Message.Subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	if env.MessageID != "" {
		fmt.Fprintf(&msg, "X-Folio-Notification-ID: %s\r\n", env.MessageID)
	}
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}

// sendSMTP sends the email via SMTP.
func (c *EmailChannel) sendSMTP(ctx context.Context, to string, msg []byte) error {
	cfg := c.config
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	dialer := &net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }() //nolint:errcheck // Best effort cleanup

	deadline := time.Now().Add(cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }() //nolint:errcheck // Best effort cleanup

	if cfg.UseTLS {
		tlsConfig := c.tlsConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{
				ServerName: cfg.Host,
				MinVersion: tls.VersionTLS12,
			}
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if cfg.User != "" && cfg.Password != "" {
		auth := smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := writer.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	// The message is accepted once DATA completes; QUIT failures are ignored.
	_ = client.Quit() //nolint:errcheck
	return nil
}

// classifyEmailError classifies an error into an error code. SMTP reply
// codes are used when present: 4xx replies are transient server errors.
func classifyEmailError(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrorCodeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorCodeCanceled
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch {
		case protoErr.Code == 421 || protoErr.Code == 450 || protoErr.Code == 451:
			return ErrorCodeServerError
		case protoErr.Code == 452:
			return ErrorCodeRateLimited
		case protoErr.Code == 535 || protoErr.Code == 534 || protoErr.Code == 530:
			return ErrorCodeAuthFailed
		case protoErr.Code == 550 || protoErr.Code == 551 || protoErr.Code == 553:
			return ErrorCodeRecipientNotFound
		case protoErr.Code == 552:
			return ErrorCodeContentTooLarge
		case protoErr.Code >= 400 && protoErr.Code < 500:
			return ErrorCodeServerError
		}
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "authentication"):
		return ErrorCodeAuthFailed
	case strings.Contains(errStr, "connect"):
		return ErrorCodeConnectionFailed
	case strings.Contains(errStr, "timeout"):
		return ErrorCodeTimeout
	case strings.Contains(errStr, "recipient") || strings.Contains(errStr, "mailbox"):
		return ErrorCodeRecipientNotFound
	}

	return ErrorCodeUnknown
}
