package memory

import (
	"context"
	"sync"
	"time"
)

// Store keeps the equipment document in process memory.
// Contents are lost on restart.
type Store struct {
	mu        sync.RWMutex
	data      []byte
	lastWrite time.Time
}

// NewStore creates an empty memory store.
func NewStore() *Store {
	return &Store{}
}

// Load returns a copy of the stored document, nil if nothing was saved.
func (s *Store) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// Save replaces the stored document.
func (s *Store) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.lastWrite = time.Now()
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// LastWrite returns the time of the last Save, zero if none.
func (s *Store) LastWrite(_ context.Context) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastWrite, nil
}
