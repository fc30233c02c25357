package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps entries in process memory with a TTL.
// Entries are shared, not copied; callers must treat them as read-only.
type MemoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore creates a store whose entries expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &MemoryStore{c: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryStore) Get(_ context.Context, tag string) (*Entry, error) {
	v, ok := m.c.Get(tag)
	if !ok {
		return nil, ErrMiss
	}
	return v.(*Entry), nil
}

func (m *MemoryStore) Put(_ context.Context, e *Entry) error {
	m.c.SetDefault(e.Tag, e)
	return nil
}

// Flush removes every entry.
func (m *MemoryStore) Flush() {
	m.c.Flush()
}
