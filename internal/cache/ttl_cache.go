package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type slot[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache 는 크기 제한과 만료를 함께 가진 LRU 캐시다. 동시 사용에 안전하다.
// 만료 시각은 항목이 처음 저장될 때 정해지고 Modify 로는 연장되지 않는다.
type TTLCache[K comparable, V any] struct {
	mu  sync.Mutex
	ttl time.Duration
	lru *expirable.LRU[K, slot[V]]
}

// NewTTLCache: maxSize 와 ttl 이 0 이하면 각각 1, 1초로 올립니다.
func NewTTLCache[K comparable, V any](maxSize int, ttl time.Duration) *TTLCache[K, V] {
	maxSize = max(1, maxSize)
	if ttl <= 0 {
		ttl = time.Second
	}
	return &TTLCache[K, V]{
		ttl: ttl,
		lru: expirable.NewLRU[K, slot[V]](maxSize, nil, ttl),
	}
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	if s, ok := c.live(key); ok {
		return s.value, true
	}
	var zero V
	return zero, false
}

// Set: 값을 저장하고 만료 시각을 새로 잡습니다.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, slot[V]{value: value, expiresAt: time.Now().Add(c.ttl)})
}

// Modify: 살아 있는 값(없으면 zero, exists=false)에 fn 을 적용해 원자적으로 저장합니다.
// 기존 항목의 만료 시각을 유지하므로 고정 창 카운터로 쓸 수 있습니다.
func (c *TTLCache[K, V]) Modify(key K, fn func(current V, exists bool) V) (V, bool) {
	var zero V
	if fn == nil {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current, exists := c.live(key)
	if !exists {
		current = slot[V]{expiresAt: time.Now().Add(c.ttl)}
	}
	current.value = fn(current.value, exists)
	c.lru.Add(key, current)
	return current.value, true
}

func (c *TTLCache[K, V]) Delete(key K) {
	c.lru.Remove(key)
}

// Len: 아직 정리되지 않은 만료 항목도 셉니다.
func (c *TTLCache[K, V]) Len() int {
	return c.lru.Len()
}

func (c *TTLCache[K, V]) live(key K) (slot[V], bool) {
	s, ok := c.lru.Get(key)
	if !ok {
		return slot[V]{}, false
	}
	if !time.Now().Before(s.expiresAt) {
		c.lru.Remove(key)
		return slot[V]{}, false
	}
	return s, true
}
