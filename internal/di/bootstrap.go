//go:build !wireinject

package di

import (
	"fmt"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	emojichatdomain "github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/domain/emojichat"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/handler"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/metrics"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/server"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/usage"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/usecase/emojichat"
)

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 인스턴스를 반환한다.
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	telemetryProvider, err := ProvideTelemetry(cfg, logger)
	if err != nil {
		return nil, err
	}

	metricsStore := metrics.NewStore()
	collectors := ProvideCollectors()

	usageStore := ProvideUsageStore(cfg, logger)
	usageRecorder := usage.NewRecorder(usageStore, logger)

	llmBackend, err := ProvideBackend(cfg, metricsStore, collectors, usageRecorder, logger)
	if err != nil {
		return nil, err
	}

	injectionGuard, err := ProvideGuard(cfg, logger)
	if err != nil {
		return nil, err
	}

	prompts, err := emojichatdomain.NewPrompts()
	if err != nil {
		return nil, fmt.Errorf("emoji prompts: %w", err)
	}

	moderator := ProvideModerator(cfg, llmBackend, prompts, injectionGuard, collectors, logger)
	service := emojichat.New(cfg, llmBackend, moderator, prompts, collectors, logger)

	rateCounter, err := ProvideRateLimitCounter(cfg)
	if err != nil {
		return nil, err
	}

	emojiHandler := handler.NewEmojiHandler(service, logger)
	guardHandler := handler.NewGuardHandler(injectionGuard)
	llmHandler := handler.NewLLMHandler(cfg, metricsStore)
	usageHandler := ProvideUsageHandler(cfg, usageStore, logger)

	router := handler.NewRouter(cfg, logger, rateCounter, llmBackend, emojiHandler, guardHandler, llmHandler, usageHandler)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, service, telemetryProvider, rateCounter, usageStore), nil
}
