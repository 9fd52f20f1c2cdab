// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package profile stores reader profiles: the username and email address that
// recommendation emails are sent to.
package profile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors returned by every Store implementation.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidUsername = errors.New("invalid username")
)

// emailPattern is the address check applied before a profile is stored.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// Profile is a registered reader.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists profiles keyed by username.
type Store interface {
	// Create registers a new profile. It returns ErrProfileExists when the
	// username is taken and ErrInvalidEmail when email is malformed.
	Create(ctx context.Context, username, email string) (*Profile, error)
	// Get returns ErrProfileNotFound when no profile has the username.
	Get(ctx context.Context, username string) (*Profile, error)
	// Delete returns ErrProfileNotFound when no profile has the username.
	Delete(ctx context.Context, username string) error
	// List returns all profiles ordered by username.
	List(ctx context.Context) ([]*Profile, error)
	Close() error
}

// ValidEmail reports whether email is accepted for a profile.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// newProfile validates the input and builds the record to store.
func newProfile(username, email string) (*Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return &Profile{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// StoreType selects a Store implementation.
type StoreType string

const (
	// StoreMemory keeps profiles in process memory only.
	StoreMemory StoreType = "memory"
	// StoreBadger persists profiles in BadgerDB.
	StoreBadger StoreType = "badger"
)

// Open builds the store named by storeType. Badger stores live under path.
func Open(storeType StoreType, path string, opts ...BadgerOption) (Store, error) {
	switch storeType {
	case StoreMemory:
		return NewMemoryStore(), nil
	case StoreBadger, "":
		return OpenBadgerStore(path, opts...)
	default:
		return nil, fmt.Errorf("unknown profile store %q", storeType)
	}
}
