package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	ts "github.com/openseis/blockview/tilestore"
)

var ErrNilClient = errors.New("redis tile store: nil client")

// Store keeps tile images in Redis, letting multiple browser instances
// share one tile pool. Entries expire after TTL.
type Store struct {
	rdb         goredis.UniversalClient
	prefix      string
	ttl         time.Duration
	closeClient bool
}

var _ ts.Store = (*Store)(nil)

type Config struct {
	Client goredis.UniversalClient
	// Prefix namespaces tile keys, e.g. "blockview:tile:".
	Prefix string
	// TTL per tile; 0 = no expiry.
	TTL time.Duration
	// CloseClient: set true only if this store exclusively owns the client.
	CloseClient bool
}

func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "blockview:tile:"
	}
	return &Store{rdb: cfg.Client, prefix: prefix, ttl: cfg.TTL, closeClient: cfg.CloseClient}, nil
}

func (s *Store) Get(ctx context.Context, id string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, s.prefix+id).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (s *Store) Put(ctx context.Context, id string, image []byte) error {
	return s.rdb.Set(ctx, s.prefix+id, image, s.ttl).Err()
}

func (s *Store) Del(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.prefix+id).Err()
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Store) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
