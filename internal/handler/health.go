package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/health"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
)

const (
	serviceName    = "Emoji Chat Backend API"
	serviceVersion = "1.0.0"

	listModelsTimeout = 5 * time.Second
)

// ModelConfigResponse: 모델 설정 응답입니다.
type ModelConfigResponse struct {
	Provider        string   `json:"provider"`
	ModelDefault    string   `json:"model_default"`
	ModelModeration string   `json:"model_moderation"`
	Temperature     float64  `json:"temperature"`
	MaxTokens       int      `json:"max_tokens"`
	TimeoutSeconds  int      `json:"timeout_seconds"`
	HTTP2Enabled    bool     `json:"http2_enabled"`
	TransportMode   string   `json:"transport_mode"`
	AvailableModels []string `json:"available_models"`
	ModelsError     string   `json:"models_error,omitempty"`
}

// IndexResponse: 서비스 안내 응답입니다.
type IndexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// RegisterHealthRoutes: 상태 확인 라우트를 등록합니다.
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config, backend llm.Backend) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, IndexResponse{
			Message: serviceName,
			Version: serviceVersion,
			Endpoints: map[string]string{
				"emojis": "/api/emojis",
				"sample": "/api/sample",
				"health": "/health",
			},
		})
	})

	router.GET("/health", func(c *gin.Context) {
		// Liveness: 백엔드 상태와 무관하게 shallow 로 유지합니다.
		payload := health.Collect(c.Request.Context(), cfg, backend, false)
		c.JSON(http.StatusOK, payload)
	})

	router.GET("/health/ready", func(c *gin.Context) {
		payload := health.Collect(c.Request.Context(), cfg, backend, true)
		status := http.StatusOK
		if payload.Status != health.StatusHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, payload)
	})

	// Prometheus 메트릭
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health/models", func(c *gin.Context) {
		c.JSON(http.StatusOK, buildModelConfig(c.Request.Context(), cfg, backend))
	})
}

func buildModelConfig(ctx context.Context, cfg *config.Config, backend llm.Backend) ModelConfigResponse {
	transportMode := "h1"
	if cfg.HTTP.HTTP2Enabled {
		transportMode = "h2c"
	}

	response := ModelConfigResponse{
		Provider:        cfg.LLM.Provider,
		ModelDefault:    cfg.LLM.DefaultModel,
		ModelModeration: cfg.LLM.ModelForTask("moderation"),
		Temperature:     cfg.LLM.Temperature,
		MaxTokens:       cfg.LLM.MaxTokens,
		TimeoutSeconds:  cfg.LLM.TimeoutSeconds,
		HTTP2Enabled:    cfg.HTTP.HTTP2Enabled,
		TransportMode:   transportMode,
		AvailableModels: []string{},
	}

	lister, ok := backend.(llm.ModelLister)
	if !ok {
		return response
	}
	listCtx, cancel := context.WithTimeout(ctx, listModelsTimeout)
	defer cancel()
	models, err := lister.ListModels(listCtx)
	if err != nil {
		response.ModelsError = err.Error()
		return response
	}
	if models != nil {
		response.AvailableModels = models
	}
	return response
}
