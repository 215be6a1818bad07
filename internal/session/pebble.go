// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

const pebbleKeyPrefix = "session/"

// PebbleStore keeps sessions in an embedded pebble database.
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebbleStore opens (or creates) the database in dir.
func OpenPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble store %s: %w", dir, err)
	}
	return &PebbleStore{db: db}, nil
}

func pebbleKey(id string) []byte {
	return []byte(pebbleKeyPrefix + id)
}

// Load implements Store. Expired records are deleted and reported as ErrNotFound.
func (s *PebbleStore) Load(_ context.Context, id string) (*Record, error) {
	value, closer, err := s.db.Get(pebbleKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	var rec Record
	err = json.Unmarshal(value, &rec)
	closer.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}

	if rec.Expired(time.Now()) {
		if err := s.db.Delete(pebbleKey(id), pebble.NoSync); err != nil {
			return nil, fmt.Errorf("failed to delete expired session %s: %w", id, err)
		}
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Save implements Store.
func (s *PebbleStore) Save(_ context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", rec.ID, err)
	}
	if err := s.db.Set(pebbleKey(rec.ID), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to write session %s: %w", rec.ID, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *PebbleStore) Close() error {
	return s.db.Close()
}
