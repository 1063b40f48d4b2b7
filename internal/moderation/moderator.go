package moderation

import (
	"context"
	"log/slog"
	"time"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/guard"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/metrics"
)

// PurposeModeration: 검열 호출의 메트릭 라벨입니다.
const PurposeModeration = "moderation"

// PromptRenderer: 검열 프롬프트를 만듭니다.
type PromptRenderer interface {
	Moderation(message string) (string, error)
}

// Options: Moderator 설정입니다.
type Options struct {
	// Model: 검열에 쓸 모델. 비어 있으면 백엔드 기본값입니다.
	Model   string
	Timeout time.Duration
}

// Moderator: 메시지의 안전 여부를 판정합니다. 판정 불가 상황은 모두 거부로 처리합니다.
type Moderator struct {
	backend    llm.Backend
	prompts    PromptRenderer
	guard      guard.Guard
	opts       Options
	collectors *metrics.Collectors
	logger     *slog.Logger
}

// NewModerator: Moderator 를 생성합니다. guard, collectors 는 nil 일 수 있습니다.
func NewModerator(
	backend llm.Backend,
	prompts PromptRenderer,
	injectionGuard guard.Guard,
	opts Options,
	collectors *metrics.Collectors,
	logger *slog.Logger,
) *Moderator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Moderator{
		backend:    backend,
		prompts:    prompts,
		guard:      injectionGuard,
		opts:       opts,
		collectors: collectors,
		logger:     logger,
	}
}

// Check: 메시지를 검열합니다.
func (m *Moderator) Check(ctx context.Context, message string) Verdict {
	verdict := m.check(ctx, message)
	m.collectors.ObserveVerdict(verdict.Label())
	return verdict
}

func (m *Moderator) check(ctx context.Context, message string) Verdict {
	if m.guard != nil {
		evaluation := m.guard.Evaluate(message)
		if evaluation.Malicious() {
			m.logger.WarnContext(ctx, "moderation_guard_blocked",
				"score", evaluation.Score,
				"threshold", evaluation.Threshold,
			)
			return Unsafe(ReasonInjection)
		}
	}

	prompt, err := m.prompts.Moderation(message)
	if err != nil {
		m.logger.ErrorContext(ctx, "moderation_prompt_failed", "err", err)
		return Unsafe(ReasonUnavailable)
	}

	result, err := m.backend.Generate(ctx, llm.Request{
		Prompt:  prompt,
		Model:   m.opts.Model,
		Timeout: m.opts.Timeout,
		Purpose: PurposeModeration,
	})
	if err != nil {
		m.logger.WarnContext(ctx, "moderation_unavailable", "err", err)
		return Unsafe(ReasonUnavailable)
	}

	verdict := ParseVerdict(result.Text)
	if verdict.Reason == ReasonUnexpected {
		m.logger.WarnContext(ctx, "moderation_unexpected_response", "response", result.Text)
	}
	return verdict
}
