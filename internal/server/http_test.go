package server

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
)

func TestNewHTTPServer(t *testing.T) {
	router := gin.New()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{Host: "127.0.0.1", Port: 8000, HTTP2Enabled: false},
		LLM:  config.LLMConfig{TimeoutSeconds: 30},
	}

	server := NewHTTPServer(cfg, router)
	if server.Addr != "127.0.0.1:8000" {
		t.Fatalf("unexpected addr: %s", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected plain router handler")
	}
	if server.WriteTimeout != 70*time.Second {
		t.Fatalf("unexpected write timeout: %s", server.WriteTimeout)
	}

	cfg.HTTP.HTTP2Enabled = true
	server = NewHTTPServer(cfg, router)
	if server.Handler == router {
		t.Fatalf("expected wrapped handler")
	}
}

func TestNewHTTPServerIPv6(t *testing.T) {
	cfg := &config.Config{HTTP: config.HTTPConfig{Host: "::1", Port: 8000}}
	server := NewHTTPServer(cfg, gin.New())
	if server.Addr != "[::1]:8000" {
		t.Fatalf("unexpected addr: %s", server.Addr)
	}
	if server.WriteTimeout != 0 {
		t.Fatalf("expected no write timeout without backend timeout")
	}
}
