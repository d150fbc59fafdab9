package ristretto

import (
	"context"
	"errors"

	rc "github.com/dgraph-io/ristretto"

	ts "github.com/openseis/blockview/tilestore"
)

// Store keeps tile images in Ristretto with cost = image size, so MaxCost
// bounds tile memory in bytes. Admission may decline a Put under pressure;
// the cache then reads the tile as unavailable, which is the contract.
type Store struct {
	c *rc.Cache
}

var _ ts.Store = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // total image bytes to retain
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, id string) ([]byte, bool, error) {
	v, ok := s.c.Get(id)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		s.c.Del(id)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Put(_ context.Context, id string, image []byte) error {
	s.c.Set(id, image, int64(len(image)))
	return nil
}

func (s *Store) Del(_ context.Context, id string) error {
	s.c.Del(id)
	return nil
}

func (s *Store) Close(context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes Ristretto's counters (not part of tilestore.Store).
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
