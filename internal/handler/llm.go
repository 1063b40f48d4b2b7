package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/metrics"
)

// CallUsageResponse 는 프로세스 누적 토큰 사용량 응답이다.
type CallUsageResponse struct {
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
	TotalTokens  int64  `json:"total_tokens"`
	Model        string `json:"model"`
}

// LLMHandler 는 백엔드 호출 통계 API 핸들러다.
type LLMHandler struct {
	cfg     *config.Config
	metrics *metrics.Store
}

// NewLLMHandler 는 통계 핸들러를 생성한다.
func NewLLMHandler(cfg *config.Config, metricsStore *metrics.Store) *LLMHandler {
	if metricsStore == nil {
		metricsStore = metrics.NewStore()
	}
	return &LLMHandler{
		cfg:     cfg,
		metrics: metricsStore,
	}
}

// RegisterRoutes 는 통계 라우트를 등록한다.
func (h *LLMHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/llm")
	group.GET("/metrics", h.handleMetrics)
	group.GET("/usage", h.handleUsage)
}

func (h *LLMHandler) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

func (h *LLMHandler) handleUsage(c *gin.Context) {
	totals := h.metrics.UsageTotals()
	c.JSON(http.StatusOK, CallUsageResponse{
		InputTokens:  int64(totals.InputTokens),
		OutputTokens: int64(totals.OutputTokens),
		TotalTokens:  int64(totals.TotalTokens),
		Model:        h.cfg.LLM.DefaultModel,
	})
}
