package handler

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/middleware"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/ratelimit"
)

// NewRouter 는 HTTP 라우터를 구성한다. usageHandler 는 사용량 DB 가 꺼져 있으면 nil 이다.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	counter ratelimit.Counter,
	backend llm.Backend,
	emojiHandler *EmojiHandler,
	guardHandler *GuardHandler,
	llmHandler *LLMHandler,
	usageHandler *UsageHandler,
) *gin.Engine {
	setGinMode(cfg.HTTP.DevelopmentMode)

	router := gin.New()
	if cfg.Telemetry.Enabled {
		router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		middleware.CORS(cfg.CORS),
		middleware.APIKeyAuth(cfg),
		middleware.RateLimit(cfg, counter, logger),
	)
	if cfg.HTTP.GzipEnabled {
		router.Use(newGzipMiddleware())
	}

	RegisterHealthRoutes(router, cfg, backend)
	emojiHandler.RegisterRoutes(router)
	guardHandler.RegisterRoutes(router)
	llmHandler.RegisterRoutes(router)
	if usageHandler != nil {
		usageHandler.RegisterRoutes(router)
	}

	return router
}

func newGzipMiddleware() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression, gzip.WithCustomShouldCompressFn(func(c *gin.Context) bool {
		// 헬스 체크와 Prometheus 스크랩은 압축하지 않습니다.
		switch c.Request.URL.Path {
		case "/health", "/health/ready", "/metrics":
			return false
		}
		return true
	}))
}

func setGinMode(developmentMode bool) {
	if developmentMode {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
