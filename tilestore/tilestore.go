// Package tilestore defines the byte store blocks use to park spectrogram
// image payloads. Images dominate a block's memory footprint; offloading
// them to a store with its own bounds keeps the block map small and lets the
// store apply pressure independently of block eviction.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte previously passed to Put for an id. A store MAY drop
// entries under pressure; the cache treats a miss as "image unavailable",
// never as an error.
package tilestore

import (
	"context"
	"sync"
)

// Store is a minimal byte store keyed by tile identifier. Must be safe for
// concurrent use.
type Store interface {
	// Get returns (image, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, id string) ([]byte, bool, error)

	// Put stores the image. Stores with admission policies may silently
	// decline; the next Get then misses.
	Put(ctx context.Context, id string, image []byte) error

	// Del removes an entry (best-effort).
	Del(ctx context.Context, id string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Memory is an unbounded in-process Store, the default and the test double.
type Memory struct {
	mu sync.RWMutex
	m  map[string][]byte
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{m: make(map[string][]byte)} }

func (s *Memory) Get(_ context.Context, id string) ([]byte, bool, error) {
	s.mu.RLock()
	b, ok := s.m[id]
	s.mu.RUnlock()
	return b, ok, nil
}

func (s *Memory) Put(_ context.Context, id string, image []byte) error {
	s.mu.Lock()
	s.m[id] = image
	s.mu.Unlock()
	return nil
}

func (s *Memory) Del(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
	return nil
}

func (s *Memory) Close(context.Context) error { return nil }

// Len reports the number of stored tiles.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
