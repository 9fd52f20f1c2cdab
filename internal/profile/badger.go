// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Key prefix for BadgerDB storage
const profileKeyPrefix = "profile:"

// maxConflictRetries bounds retries of a transaction that lost an optimistic
// concurrency race with another writer.
const maxConflictRetries = 3

// BadgerStore implements Store using BadgerDB for durable storage.
type BadgerStore struct {
	db *badger.DB
}

type badgerConfig struct {
	inMemory bool
	logger   *zerolog.Logger
}

// BadgerOption customizes OpenBadgerStore.
type BadgerOption func(*badgerConfig)

// WithInMemory keeps the database in memory, for tests.
func WithInMemory() BadgerOption {
	return func(c *badgerConfig) { c.inMemory = true }
}

// WithLogger routes BadgerDB's internal logging through logger.
func WithLogger(logger zerolog.Logger) BadgerOption {
	return func(c *badgerConfig) { c.logger = &logger }
}

// OpenBadgerStore opens (or creates) a BadgerDB at path.
func OpenBadgerStore(path string, opts ...BadgerOption) (*BadgerStore, error) {
	var cfg badgerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	bopts := badger.DefaultOptions(path)
	if cfg.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil
	if cfg.logger != nil {
		bopts.Logger = badgerLogger{cfg.logger.With().Str("component", "profile-store").Logger()}
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for profiles: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func profileKey(username string) []byte {
	return []byte(profileKeyPrefix + username)
}

// Create stores a new profile.
func (s *BadgerStore) Create(ctx context.Context, username, email string) (*Profile, error) {
	p, err := newProfile(username, email)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}

	key := profileKey(p.Username)
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err = s.db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get(key)
			if err == nil {
				return ErrProfileExists
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("get profile: %w", err)
			}
			return txn.Set(key, data)
		})
		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Get retrieves a profile by username.
func (s *BadgerStore) Get(ctx context.Context, username string) (*Profile, error) {
	var p Profile

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(strings.TrimSpace(username)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a profile by username.
func (s *BadgerStore) Delete(ctx context.Context, username string) error {
	key := profileKey(strings.TrimSpace(username))
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("get profile: %w", err)
		}
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		return nil
	})
}

// List returns all profiles ordered by username. Badger iterates keys in
// byte order, which is the username order.
func (s *BadgerStore) List(ctx context.Context) ([]*Profile, error) {
	var profiles []*Profile

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(profileKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var p Profile
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return fmt.Errorf("decode profile %s: %w", it.Item().Key(), err)
			}
			profiles = append(profiles, &p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// Close closes the underlying BadgerDB.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger adapts zerolog to badger.Logger.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}
