package snapshot

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryKey = "accounts"

// MemoryStore keeps the snapshot in process memory, expiring after ttl (0 = never).
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &MemoryStore{cache: gocache.New(ttl, 10*time.Minute)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Save(_ context.Context, raw []byte) error {
	cp := make([]byte, len(raw))
	copy(cp, raw)
	s.cache.Set(memoryKey, cp, gocache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Load(_ context.Context) ([]byte, error) {
	if v, found := s.cache.Get(memoryKey); found {
		return v.([]byte), nil
	}
	return nil, ErrNotFound
}
