package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func serveWithRequestID(incoming string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/api/emojis", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/emojis", nil)
	if incoming != "" {
		req.Header.Set(RequestIDHeader, incoming)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRequestIDGenerated(t *testing.T) {
	resp := serveWithRequestID("")

	id := resp.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid request id, got %q", id)
	}
	if resp.Body.String() != id {
		t.Fatalf("handler saw %q, header has %q", resp.Body.String(), id)
	}
}

func TestRequestIDIncomingHeader(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "plain token", incoming: "req-123", keep: true},
		{name: "trace style", incoming: "web:2026.10.16_abc", keep: true},
		{name: "oversized", incoming: strings.Repeat("x", maxRequestIDLength+1), keep: false},
		{name: "spaces", incoming: "req 123", keep: false},
		{name: "non ascii", incoming: "요청-1", keep: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := serveWithRequestID(tt.incoming).Header().Get(RequestIDHeader)
			if tt.keep && id != tt.incoming {
				t.Fatalf("id = %q, want %q", id, tt.incoming)
			}
			if !tt.keep {
				if _, err := uuid.Parse(id); err != nil {
					t.Fatalf("expected regenerated uuid, got %q", id)
				}
			}
		})
	}
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := GetRequestID(c); got != "" {
		t.Fatalf("GetRequestID() = %q, want empty", got)
	}
	if got := GetRequestID(nil); got != "" {
		t.Fatalf("GetRequestID(nil) = %q, want empty", got)
	}
}
