package bigcache

import (
	"context"
	"time"

	bc "github.com/allegro/bigcache/v3"

	ts "github.com/openseis/blockview/tilestore"
)

// Store keeps tile images in BigCache. No per-entry TTL; the global
// LifeWindow ages whole fetch generations out together, which suits
// spectrogram tiles (a region revisited after LifeWindow refetches anyway).
type Store struct {
	c *bc.BigCache
}

var _ ts.Store = (*Store)(nil)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, id string) ([]byte, bool, error) {
	b, err := s.c.Get(id)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	return b, err == nil, err
}

func (s *Store) Put(_ context.Context, id string, image []byte) error {
	return s.c.Set(id, image)
}

func (s *Store) Del(_ context.Context, id string) error {
	err := s.c.Delete(id)
	if err == bc.ErrEntryNotFound {
		return nil
	}
	return err
}

func (s *Store) Close(context.Context) error {
	return s.c.Close()
}
