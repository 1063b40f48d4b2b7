package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

func newBindContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		optional bool
		wantOK   bool
	}{
		{name: "malformed", body: "invalid", wantOK: false},
		{name: "missing required field", body: `{}`, wantOK: false},
		{name: "valid", body: `{"name":"bo"}`, wantOK: true},
		{name: "empty body required", body: "", wantOK: false},
		{name: "empty body optional", body: "", optional: true, wantOK: true},
		{name: "malformed optional", body: "{", optional: true, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newBindContext(tt.body)
			var req nameRequest
			bind := bindJSON
			if tt.optional {
				bind = bindOptionalJSON
			}
			ok := bind(c, &req)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok && w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", w.Code)
			}
		})
	}
}

func TestPreviewText(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{input: "short", max: 10, want: "short"},
		{input: "안녕하세요 반가워요", max: 5, want: "안녕하세요..."},
		{input: "🎉🎂🎈", max: 2, want: "🎉🎂..."},
		{input: "anything", max: 0, want: ""},
	}
	for _, tt := range tests {
		if got := previewText(tt.input, tt.max); got != tt.want {
			t.Fatalf("previewText(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}
