package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/backend"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	emojichatdomain "github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/domain/emojichat"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/guard"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/handler"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/logging"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/metrics"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/moderation"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/ratelimit"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/telemetry"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/usage"
)

// ProvideLogger: 로거를 구성해 반환합니다.
// OTel이 활성화된 경우 로그에 trace_id/span_id가 자동으로 추가됩니다.
func ProvideLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(cfg.Logging, cfg.Telemetry.Enabled)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// ProvideTelemetry: 추적 provider 를 초기화합니다.
func ProvideTelemetry(cfg *config.Config, logger *slog.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.NewProvider(context.Background(), cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	return provider, nil
}

// ProvideCollectors: 기본 레지스트리에 Prometheus 카운터를 등록합니다. /metrics 가 이 레지스트리를 노출합니다.
func ProvideCollectors() *metrics.Collectors {
	return metrics.NewCollectors(prometheus.DefaultRegisterer)
}

// ProvideUsageStore: 사용량 DB 가 켜져 있으면 저장소를, 아니면 nil 을 반환합니다.
func ProvideUsageStore(cfg *config.Config, logger *slog.Logger) usage.Store {
	if !cfg.Database.UsageEnabled {
		return nil
	}
	return usage.NewRepository(cfg, logger)
}

// ProvideBackend: 공급자별 백엔드를 만들고 통계 기록 래퍼로 감쌉니다.
func ProvideBackend(
	cfg *config.Config,
	store *metrics.Store,
	collectors *metrics.Collectors,
	recorder *usage.Recorder,
	logger *slog.Logger,
) (*backend.Instrumented, error) {
	inner, err := backend.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("llm backend: %w", err)
	}
	return backend.NewInstrumented(inner, store, collectors, recorder, logger), nil
}

// ProvideGuard: 입력 가드를 생성합니다.
func ProvideGuard(cfg *config.Config, logger *slog.Logger) (*guard.InjectionGuard, error) {
	injectionGuard, err := guard.NewGuard(cfg.Guard, logger)
	if err != nil {
		return nil, fmt.Errorf("guard: %w", err)
	}
	return injectionGuard, nil
}

// ProvideModerator: 검열 모델/타임아웃을 설정에서 읽어 Moderator 를 생성합니다.
func ProvideModerator(
	cfg *config.Config,
	llmBackend llm.Backend,
	prompts *emojichatdomain.Prompts,
	injectionGuard guard.Guard,
	collectors *metrics.Collectors,
	logger *slog.Logger,
) *moderation.Moderator {
	opts := moderation.Options{
		Model:   cfg.LLM.ModelForTask(moderation.PurposeModeration),
		Timeout: cfg.LLM.Timeout(),
	}
	return moderation.NewModerator(llmBackend, prompts, injectionGuard, opts, collectors, logger)
}

// ProvideRateLimitCounter: 요청 제한 카운터를 생성합니다.
func ProvideRateLimitCounter(cfg *config.Config) (ratelimit.Counter, error) {
	counter, err := ratelimit.NewCounter(cfg.HTTPRateLimit)
	if err != nil {
		return nil, fmt.Errorf("rate limit counter: %w", err)
	}
	return counter, nil
}

// ProvideUsageHandler: 사용량 저장소가 없으면 nil 을 반환해 라우트를 등록하지 않습니다.
func ProvideUsageHandler(cfg *config.Config, store usage.Store, logger *slog.Logger) *handler.UsageHandler {
	if store == nil {
		return nil
	}
	return handler.NewUsageHandler(cfg, store, logger)
}
