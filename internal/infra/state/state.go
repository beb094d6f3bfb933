// Package state persists named JSON documents on the local disk, one
// file per key. It is the durable-storage analogue the stores use to
// survive process restarts; data is always re-fetched and overwritten
// on the next successful load, so the files are a warm-start cache,
// not a source of truth.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Store writes documents atomically (temp file + rename) under dir.
type Store struct {
	mu     sync.Mutex
	dir    string
	logger *zap.Logger
}

// New creates the state directory if needed and returns a Store.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("state: create dir %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Save marshals v and atomically replaces the document for key.
func (s *Store) Save(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("state: marshal %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("state: temp file for %s: %w", key, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("state: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("state: close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("state: replace %s: %w", key, err)
	}

	s.logger.Debug("state: saved", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Load unmarshals the document for key into out. Returns false with a
// nil error when no document exists. A corrupt document is treated as
// absent (and logged) rather than failing startup.
func (s *Store) Load(key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("state: read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("state: discarding corrupt document",
			zap.String("key", key),
			zap.Error(err),
		)
		return false, nil
	}
	return true, nil
}

// Delete removes the document for key. Missing documents are fine.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("state: delete %s: %w", key, err)
	}
	return nil
}
