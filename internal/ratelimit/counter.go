// Package ratelimit: 고정 윈도우 요청 카운터를 제공합니다.
package ratelimit

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/cache"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
)

const keyPrefix = "ratelimit:"

// Counter: 윈도우 단위 카운터입니다. 구현체는 동시 호출에 안전해야 합니다.
type Counter interface {
	// Incr: key 의 카운트를 1 올린 뒤 값을 반환합니다. 첫 증가 시 window 만료를 설정합니다.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Close()
}

// NewCounter: StoreURL 이 있으면 Valkey, 없으면 메모리 카운터를 생성합니다.
func NewCounter(cfg config.HTTPRateLimitConfig) (Counter, error) {
	if cfg.StoreURL == "" {
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		return NewMemoryCounter(cfg.CacheSize, ttl), nil
	}

	conn, err := parseStoreURL(cfg.StoreURL)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit store url: %w", err)
	}

	var tlsConfig *tls.Config
	if conn.useTLS {
		host, _, splitErr := net.SplitHostPort(conn.addr)
		if splitErr != nil {
			return nil, fmt.Errorf("parse rate limit store addr: %w", splitErr)
		}
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		TLSConfig:    tlsConfig,
		Username:     conn.username,
		Password:     conn.password,
		InitAddress:  []string{conn.addr},
		SelectDB:     conn.selectDB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}
	return NewValkeyCounter(client), nil
}

// MemoryCounter: 프로세스 메모리 카운터입니다. 인스턴스 간 공유되지 않습니다.
type MemoryCounter struct {
	counts *cache.TTLCache[string, int64]
}

// NewMemoryCounter: MemoryCounter 를 생성합니다.
func NewMemoryCounter(size int, ttl time.Duration) *MemoryCounter {
	return &MemoryCounter{counts: cache.NewTTLCache[string, int64](size, ttl)}
}

// Incr: 카운트를 올립니다. 만료는 캐시 TTL 을 따릅니다.
func (m *MemoryCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	count, ok := m.counts.Modify(key, func(current int64, _ bool) int64 { return current + 1 })
	if !ok {
		return 0, fmt.Errorf("rate limit counter unavailable")
	}
	return count, nil
}

// Close: 아무 작업도 하지 않습니다.
func (m *MemoryCounter) Close() {}

// ValkeyCounter: Valkey INCR 기반 카운터입니다. 여러 인스턴스가 같은 윈도우를 공유합니다.
type ValkeyCounter struct {
	client valkey.Client
}

// NewValkeyCounter: 주어진 클라이언트로 카운터를 생성합니다.
func NewValkeyCounter(client valkey.Client) *ValkeyCounter {
	return &ValkeyCounter{client: client}
}

// Incr: INCR 후 첫 증가라면 EXPIRE 를 설정합니다.
func (v *ValkeyCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := keyPrefix + key
	count, err := v.client.Do(ctx, v.client.B().Incr().Key(fullKey).Build()).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("incr rate limit counter: %w", err)
	}
	if count == 1 && window > 0 {
		seconds := int64(window / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		if err := v.client.Do(ctx, v.client.B().Expire().Key(fullKey).Seconds(seconds).Build()).Error(); err != nil {
			return count, fmt.Errorf("expire rate limit counter: %w", err)
		}
	}
	return count, nil
}

// Close: Valkey 연결을 종료합니다.
func (v *ValkeyCounter) Close() {
	if v.client != nil {
		v.client.Close()
	}
}
