package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/metrics"
)

func TestLLMHandlerMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := metrics.NewStore()
	store.RecordSuccess(20*time.Millisecond, llm.Usage{InputTokens: 10, OutputTokens: 4, TotalTokens: 14})
	store.RecordError(10 * time.Millisecond)

	router := gin.New()
	NewLLMHandler(usageTestConfig(), store).RegisterRoutes(router)

	var snapshot map[string]float64
	if code := getJSON(t, router, "/api/llm/metrics", &snapshot); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if snapshot["total_calls"] != 2 || snapshot["total_errors"] != 1 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	var usageResp CallUsageResponse
	if code := getJSON(t, router, "/api/llm/usage", &usageResp); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if usageResp.TotalTokens != 14 || usageResp.Model != "gemma3:1b-it-qat" {
		t.Fatalf("unexpected usage: %+v", usageResp)
	}
}
