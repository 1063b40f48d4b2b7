package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
)

func TestMemoryCounter(t *testing.T) {
	counter := NewMemoryCounter(10, time.Minute)
	defer counter.Close()

	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		got, err := counter.Incr(ctx, "ip:1.2.3.4:1", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("Incr() = %d, want %d", got, want)
		}
	}

	other, err := counter.Incr(ctx, "ip:5.6.7.8:1", time.Minute)
	if err != nil || other != 1 {
		t.Fatalf("separate key count = %d err=%v", other, err)
	}
}

func TestNewCounterDefaultsToMemory(t *testing.T) {
	counter, err := NewCounter(config.HTTPRateLimitConfig{CacheSize: 10, CacheTTLSeconds: 60})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer counter.Close()
	if _, ok := counter.(*MemoryCounter); !ok {
		t.Fatalf("expected memory counter, got %T", counter)
	}
}

func TestValkeyCounter(t *testing.T) {
	mini := miniredis.RunT(t)
	counter, err := NewCounter(config.HTTPRateLimitConfig{StoreURL: "redis://" + mini.Addr()})
	if err != nil {
		t.Fatalf("failed to create counter: %v", err)
	}
	t.Cleanup(counter.Close)

	if _, ok := counter.(*ValkeyCounter); !ok {
		t.Fatalf("expected valkey counter, got %T", counter)
	}

	ctx := context.Background()
	first, err := counter.Incr(ctx, "key:abc:1", time.Minute)
	if err != nil || first != 1 {
		t.Fatalf("first Incr() = %d err=%v", first, err)
	}
	second, err := counter.Incr(ctx, "key:abc:1", time.Minute)
	if err != nil || second != 2 {
		t.Fatalf("second Incr() = %d err=%v", second, err)
	}

	ttl := mini.TTL(keyPrefix + "key:abc:1")
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl: %v", ttl)
	}

	mini.FastForward(2 * time.Minute)
	reset, err := counter.Incr(ctx, "key:abc:1", time.Minute)
	if err != nil || reset != 1 {
		t.Fatalf("after expiry Incr() = %d err=%v", reset, err)
	}
}

func TestNewCounterRejectsBadURL(t *testing.T) {
	if _, err := NewCounter(config.HTTPRateLimitConfig{StoreURL: "ftp://cache"}); err == nil {
		t.Fatalf("expected error")
	}
}
