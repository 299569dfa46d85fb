// Package memory is a process-local BlobStore, used for tests and the memory backend.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"cashflow/internal/storage"
)

type Store struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	revision uint64
	closed   bool
}

func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// NewFromFile seeds the store from a snapshot document on disk. A missing or
// unreadable file yields an empty store; the snapshot layer supplies defaults.
func NewFromFile(path string) *Store {
	s := New()
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return s
	}
	for k, v := range raw {
		s.blobs[k] = append([]byte(nil), v...)
	}
	if len(raw) > 0 {
		s.revision = 1
	}
	return s
}

func (s *Store) Load(_ context.Context) (map[string][]byte, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, 0, storage.ErrClosed
	}
	out := make(map[string][]byte, len(s.blobs))
	for k, v := range s.blobs {
		out[k] = append([]byte(nil), v...)
	}
	return out, s.revision, nil
}

func (s *Store) Save(_ context.Context, blobs map[string][]byte) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, storage.ErrClosed
	}
	s.revision++
	for k, v := range blobs {
		s.blobs[k] = append([]byte(nil), v...)
	}
	return s.revision, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
