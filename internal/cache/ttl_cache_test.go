package cache

import (
	"testing"
	"time"
)

func TestTTLCacheSetGet(t *testing.T) {
	cache := NewTTLCache[string, int](2, time.Second)
	cache.Set("a", 1)

	value, ok := cache.Get("a")
	if !ok {
		t.Fatalf("expected value")
	}
	if value != 1 {
		t.Fatalf("expected 1, got %d", value)
	}
}

func TestTTLCacheEvictsOldest(t *testing.T) {
	cache := NewTTLCache[string, int](2, time.Second)
	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)

	if _, ok := cache.Get("a"); ok {
		t.Fatalf("expected key 'a' to be evicted")
	}
	if value, ok := cache.Get("b"); !ok || value != 2 {
		t.Fatalf("expected key 'b' to remain")
	}
	if value, ok := cache.Get("c"); !ok || value != 3 {
		t.Fatalf("expected key 'c' to remain")
	}
}

func TestTTLCacheExpires(t *testing.T) {
	cache := NewTTLCache[string, int](2, 20*time.Millisecond)
	cache.Set("a", 1)
	time.Sleep(50 * time.Millisecond)

	if _, ok := cache.Get("a"); ok {
		t.Fatalf("expected key 'a' to expire")
	}
}

func TestTTLCacheModifyCounts(t *testing.T) {
	cache := NewTTLCache[string, int](4, time.Second)
	increment := func(current int, _ bool) int { return current + 1 }

	for i := 1; i <= 3; i++ {
		count, ok := cache.Modify("k", increment)
		if !ok || count != i {
			t.Fatalf("expected count %d, got %d (ok=%v)", i, count, ok)
		}
	}

	var sawExisting bool
	cache.Modify("k", func(current int, exists bool) int {
		sawExisting = exists
		return current
	})
	if !sawExisting {
		t.Fatalf("expected existing entry")
	}

	if _, ok := cache.Modify("nil", nil); ok {
		t.Fatalf("expected nil modifier to be rejected")
	}
}

func TestTTLCacheModifyResetsAfterExpiry(t *testing.T) {
	cache := NewTTLCache[string, int](4, 20*time.Millisecond)
	increment := func(current int, _ bool) int { return current + 1 }
	cache.Modify("k", increment)
	cache.Modify("k", increment)
	time.Sleep(50 * time.Millisecond)

	count, _ := cache.Modify("k", increment)
	if count != 1 {
		t.Fatalf("expected counter reset after expiry, got %d", count)
	}
}

func TestTTLCacheDeleteAndLen(t *testing.T) {
	cache := NewTTLCache[string, string](0, 0)
	cache.Set("a", "x")
	if cache.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", cache.Len())
	}
	cache.Set("b", "y")
	if _, ok := cache.Get("a"); ok {
		t.Fatal("size 0 should be clamped to 1 and evict 'a'")
	}
	cache.Delete("b")
	if _, ok := cache.Get("b"); ok {
		t.Fatal("expected 'b' to be deleted")
	}
}
