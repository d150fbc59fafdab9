package bigcache

import (
	"context"
	"testing"
	"time"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, Config{LifeWindow: time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close(ctx)

	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("miss must be (nil, false, nil): ok=%v err=%v", ok, err)
	}

	img := []byte{1, 2, 3, 4}
	if err := s.Put(ctx, "tile-a", img); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get(ctx, "tile-a")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != string(img) {
		t.Fatalf("payload not transparent: %v", got)
	}

	if err := s.Del(ctx, "tile-a"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "tile-a"); ok {
		t.Fatalf("entry must be gone after Del")
	}
	if err := s.Del(ctx, "tile-a"); err != nil {
		t.Fatalf("Del of a missing entry must be a no-op: %v", err)
	}
}
