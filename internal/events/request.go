// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/folio/internal/notify"
)

// DefaultTopic is the topic notification requests are published on.
const DefaultTopic = "notify.recommendations"

// ErrInvalidPayload is returned when a message cannot be decoded.
var ErrInvalidPayload = errors.New("invalid notification payload")

// NotificationRequest asks the consumer to email recommendations to a reader.
type NotificationRequest struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	MatchedTitle string    `json:"matched_title"`
	Titles       []string  `json:"titles"`
	RequestedAt  time.Time `json:"requested_at"`
}

// NewNotificationRequest creates a request with a fresh ID.
func NewNotificationRequest(username, email, matchedTitle string, titles []string) *NotificationRequest {
	return &NotificationRequest{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		MatchedTitle: matchedTitle,
		Titles:       titles,
		RequestedAt:  time.Now().UTC(),
	}
}

// Marshal encodes the request as JSON.
func (r *NotificationRequest) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeNotificationRequest decodes a message payload.
func DecodeNotificationRequest(payload []byte) (*NotificationRequest, error) {
	var r NotificationRequest
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if r.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidPayload)
	}
	return &r, nil
}

// NotifyRequest converts r for the notifier.
func (r *NotificationRequest) NotifyRequest() notify.Request {
	return notify.Request{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		MatchedTitle: r.MatchedTitle,
		Titles:       r.Titles,
	}
}
