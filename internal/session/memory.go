// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore keeps sessions in a size-bounded LRU whose entries expire
// after the configured TTL.
type MemoryStore struct {
	cache *expirable.LRU[string, Record]
}

// NewMemoryStore creates a MemoryStore holding at most size sessions.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: expirable.NewLRU[string, Record](size, nil, ttl)}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, id string) (*Record, error) {
	rec, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	s.cache.Add(rec.ID, *rec)
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
