package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/ratelimit"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("store down")
}

func (failingCounter) Close() {}

func newRateLimitRouter(cfg *config.Config, counter ratelimit.Counter) *gin.Engine {
	router := gin.New()
	router.Use(RateLimit(cfg, counter, testLogger()))
	router.POST("/api/emojis", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/emojis", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func doRequest(router http.Handler, method string, path string, remoteAddr string) int {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remoteAddr
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp.Code
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{HTTPRateLimit: config.HTTPRateLimitConfig{RequestsPerMinute: 1}}
	router := newRateLimitRouter(cfg, ratelimit.NewMemoryCounter(10, time.Minute))

	if code := doRequest(router, http.MethodPost, "/api/emojis", "1.2.3.4:1234"); code != http.StatusOK {
		t.Fatalf("expected ok, got %d", code)
	}
	if code := doRequest(router, http.MethodPost, "/emojis", "1.2.3.4:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("expected rate limit on alias path, got %d", code)
	}
	if code := doRequest(router, http.MethodPost, "/api/emojis", "5.6.7.8:1234"); code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", code)
	}
	for i := 0; i < 3; i++ {
		if code := doRequest(router, http.MethodGet, "/health", "1.2.3.4:1234"); code != http.StatusOK {
			t.Fatalf("health must not be limited, got %d", code)
		}
	}
}

func TestRateLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRateLimitRouter(&config.Config{}, ratelimit.NewMemoryCounter(10, time.Minute))

	for i := 0; i < 5; i++ {
		if code := doRequest(router, http.MethodPost, "/api/emojis", "1.2.3.4:1234"); code != http.StatusOK {
			t.Fatalf("expected ok, got %d", code)
		}
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{HTTPRateLimit: config.HTTPRateLimitConfig{RequestsPerMinute: 1}}
	router := newRateLimitRouter(cfg, failingCounter{})

	for i := 0; i < 3; i++ {
		if code := doRequest(router, http.MethodPost, "/api/emojis", "1.2.3.4:1234"); code != http.StatusOK {
			t.Fatalf("expected ok when counter fails, got %d", code)
		}
	}
}

func TestRateLimitHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{HTTPRateLimit: config.HTTPRateLimitConfig{RequestsPerMinute: 5}}
	router := newRateLimitRouter(cfg, ratelimit.NewMemoryCounter(10, time.Minute))

	req := httptest.NewRequest(http.MethodPost, "/api/emojis", nil)
	req.RemoteAddr = "9.9.9.9:1000"
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if got := resp.Header().Get(headerRateLimitLimit); got != "5" {
		t.Fatalf("limit header = %q, want 5", got)
	}
	if got := resp.Header().Get(headerRateLimitRemaining); got != "4" {
		t.Fatalf("remaining header = %q, want 4", got)
	}
}

func TestCurrentWindow(t *testing.T) {
	now := time.Unix(120+15, 0)
	window, retryAfter := currentWindow(now)
	if window != 2 {
		t.Fatalf("window = %d, want 2", window)
	}
	if retryAfter != 45 {
		t.Fatalf("retryAfter = %d, want 45", retryAfter)
	}

	_, retryAfter = currentWindow(time.Unix(180, 0))
	if retryAfter != 60 {
		t.Fatalf("retryAfter at boundary = %d, want 60", retryAfter)
	}
}
