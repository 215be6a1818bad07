// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore saves each session as a JSON file named after its id.
type FileStore struct {
	Dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.Dir, id+".json")
}

// Load implements Store. Expired records are reported as ErrNotFound.
func (s *FileStore) Load(_ context.Context, id string) (*Record, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	if rec.Expired(time.Now()) {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, rec *Record) error {
	if !ValidID(rec.ID) {
		return fmt.Errorf("invalid session id %q", rec.ID)
	}
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.Dir, err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", rec.ID, err)
	}

	path := s.path(rec.ID)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
