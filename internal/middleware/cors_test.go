package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
)

func TestCORSAllowAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(config.CORSConfig{AllowOrigins: []string{"*"}}))
	router.POST("/api/emojis", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/emojis", nil)
	req.Header.Set("Origin", "http://frontend.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected preflight 204, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}

func TestCORSAllowList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(config.CORSConfig{AllowOrigins: []string{"http://allowed.local"}}))
	router.GET("/api/sample", func(c *gin.Context) { c.Status(http.StatusOK) })

	allowed := httptest.NewRequest(http.MethodGet, "/api/sample", nil)
	allowed.Header.Set("Origin", "http://allowed.local")
	allowedResp := httptest.NewRecorder()
	router.ServeHTTP(allowedResp, allowed)
	if got := allowedResp.Header().Get("Access-Control-Allow-Origin"); got != "http://allowed.local" {
		t.Fatalf("unexpected allow origin: %q", got)
	}

	denied := httptest.NewRequest(http.MethodGet, "/api/sample", nil)
	denied.Header.Set("Origin", "http://evil.local")
	deniedResp := httptest.NewRecorder()
	router.ServeHTTP(deniedResp, denied)
	if deniedResp.Code != http.StatusForbidden {
		t.Fatalf("expected forbidden for unknown origin, got %d", deniedResp.Code)
	}
}
