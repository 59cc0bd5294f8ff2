package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"hbnb_web/internal/adapters/observability"
)

type entry struct {
	val       []byte
	expiresAt time.Time
}

// Cache is an in-process session store used when no Redis address is
// configured. Values are stored JSON-encoded so callers get copies.
type Cache struct {
	mu    sync.Mutex
	items map[string]entry
	now   func() time.Time
}

func New() *Cache {
	return &Cache{items: make(map[string]entry), now: time.Now}
}

func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.items[key]
	if ok && !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.items, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		observability.ObserveSession("memory", "miss")
		return false, nil
	}
	observability.ObserveSession("memory", "hit")
	return true, json.Unmarshal(e.val, dst)
}

func (c *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e := entry{val: b}
	if ttlSec > 0 {
		e.expiresAt = c.now().Add(time.Duration(ttlSec) * time.Second)
	}
	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
	observability.ObserveSession("memory", "set")
	return nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	observability.ObserveSession("memory", "del")
	return nil
}

// Sweep drops expired entries. Run it periodically from the caller.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	now := c.now()
	for k, e := range c.items {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(c.items, k)
			n++
		}
	}
	return n
}
