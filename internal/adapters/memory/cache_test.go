package memory

import (
	"context"
	"testing"
	"time"
)

func TestCache_ReturnsCopies(t *testing.T) {
	c := New()
	ctx := context.Background()

	in := []string{"a", "b"}
	if err := c.Set(ctx, "k", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	in[0] = "mutated"

	var out []string
	if ok, err := c.Get(ctx, "k", &out); !ok || err != nil {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out[0] != "a" {
		t.Fatalf("expected stored copy, got %v", out)
	}
}

func TestCache_ExpiryAndSweep(t *testing.T) {
	c := New()
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "short", 1, 10)
	_ = c.Set(ctx, "long", 2, 100)
	_ = c.Set(ctx, "forever", 3, 0)

	now = now.Add(30 * time.Second)

	var v int
	if ok, _ := c.Get(ctx, "short", &v); ok {
		t.Fatalf("expected short to expire")
	}
	if ok, _ := c.Get(ctx, "long", &v); !ok || v != 2 {
		t.Fatalf("expected long to survive, got ok=%v v=%d", ok, v)
	}

	now = now.Add(time.Hour)
	if n := c.Sweep(); n != 1 {
		t.Fatalf("expected 1 swept entry, got %d", n)
	}
	if ok, _ := c.Get(ctx, "forever", &v); !ok || v != 3 {
		t.Fatalf("expected entry without ttl to remain")
	}
}

func TestCache_Del(t *testing.T) {
	c := New()
	ctx := context.Background()
	_ = c.Set(ctx, "k", true, 60)
	_ = c.Del(ctx, "k")
	var b bool
	if ok, _ := c.Get(ctx, "k", &b); ok {
		t.Fatalf("expected miss after del")
	}
}
