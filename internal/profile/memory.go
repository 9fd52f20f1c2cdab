// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package profile

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store. Profiles are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]Profile)}
}

// Create stores a new profile.
func (s *MemoryStore) Create(ctx context.Context, username, email string) (*Profile, error) {
	p, err := newProfile(username, email)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.Username]; ok {
		return nil, ErrProfileExists
	}
	s.profiles[p.Username] = *p
	return p, nil
}

// Get retrieves a profile by username.
func (s *MemoryStore) Get(ctx context.Context, username string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[strings.TrimSpace(username)]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

// Delete removes a profile by username.
func (s *MemoryStore) Delete(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.TrimSpace(username)
	if _, ok := s.profiles[username]; !ok {
		return ErrProfileNotFound
	}
	delete(s.profiles, username)
	return nil
}

// List returns all profiles ordered by username.
func (s *MemoryStore) List(ctx context.Context) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
