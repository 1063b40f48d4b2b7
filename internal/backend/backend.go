// Package backend: 설정된 공급자의 언어 모델 백엔드를 만들고 호출 통계를 기록합니다.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/gemini"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/metrics"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/ollama"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/usage"
)

// New: cfg.LLM.Provider 에 맞는 백엔드를 생성합니다.
func New(cfg *config.Config) (llm.Backend, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	switch cfg.LLM.Provider {
	case config.ProviderOllama:
		client, err := ollama.NewClientFromConfig(cfg.LLM, cfg.Telemetry.Enabled)
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		return client, nil
	case config.ProviderGemini:
		client, err := gemini.NewClient(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}

// Instrumented: 백엔드 호출마다 통계와 사용량을 기록하는 래퍼입니다.
type Instrumented struct {
	inner      llm.Backend
	store      *metrics.Store
	collectors *metrics.Collectors
	recorder   *usage.Recorder
	logger     *slog.Logger
}

var (
	_ llm.Backend     = (*Instrumented)(nil)
	_ llm.Pinger      = (*Instrumented)(nil)
	_ llm.ModelLister = (*Instrumented)(nil)
)

// NewInstrumented: inner 를 감쌉니다. store 외의 인자는 nil 일 수 있습니다.
func NewInstrumented(
	inner llm.Backend,
	store *metrics.Store,
	collectors *metrics.Collectors,
	recorder *usage.Recorder,
	logger *slog.Logger,
) *Instrumented {
	if store == nil {
		store = metrics.NewStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Instrumented{
		inner:      inner,
		store:      store,
		collectors: collectors,
		recorder:   recorder,
		logger:     logger,
	}
}

const tracerName = "emoji-llm-server/llm"

// Generate: 내부 백엔드를 호출하고 결과를 기록합니다. 호출마다 "LLM.Generate" span 이 열립니다.
func (b *Instrumented) Generate(ctx context.Context, req llm.Request) (llm.Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "LLM.Generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.purpose", req.Purpose),
			attribute.String("llm.model", req.Model),
		),
	)
	defer span.End()

	start := time.Now()
	result, err := b.inner.Generate(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.store.RecordError(elapsed)
		b.collectors.ObserveLLMCall(req.Purpose, false)
		b.logger.WarnContext(ctx, "llm_request_failed",
			"purpose", req.Purpose,
			"model", req.Model,
			"duration_ms", elapsed.Milliseconds(),
			"err", err,
		)
		return llm.Result{}, err
	}

	span.SetAttributes(
		attribute.Int("llm.input_tokens", result.Usage.InputTokens),
		attribute.Int("llm.output_tokens", result.Usage.OutputTokens),
	)
	span.SetStatus(codes.Ok, "")
	b.store.RecordSuccess(elapsed, result.Usage)
	b.collectors.ObserveLLMCall(req.Purpose, true)
	b.recorder.Record(ctx, result.Usage)
	b.logger.DebugContext(ctx, "llm_request_done",
		"purpose", req.Purpose,
		"model", result.Model,
		"duration_ms", elapsed.Milliseconds(),
		"input_tokens", result.Usage.InputTokens,
		"output_tokens", result.Usage.OutputTokens,
	)
	return result, nil
}

// Ping: 내부 백엔드가 지원하면 연결 상태를 확인합니다.
func (b *Instrumented) Ping(ctx context.Context) error {
	pinger, ok := b.inner.(llm.Pinger)
	if !ok {
		return nil
	}
	return pinger.Ping(ctx)
}

// ListModels: 내부 백엔드가 지원하면 모델 목록을 반환합니다.
func (b *Instrumented) ListModels(ctx context.Context) ([]string, error) {
	lister, ok := b.inner.(llm.ModelLister)
	if !ok {
		return nil, nil
	}
	return lister.ListModels(ctx)
}

// Metrics: 호출 통계 저장소를 반환합니다.
func (b *Instrumented) Metrics() *metrics.Store {
	return b.store
}
