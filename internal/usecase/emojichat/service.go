package emojichat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	emojichatdomain "github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/domain/emojichat"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/emoji"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/metrics"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/moderation"
)

const (
	purposeEmoji  = "emoji"
	purposeSample = "sample"
)

// ModerationRejectedError: 검열에서 거부된 메시지 오류입니다.
type ModerationRejectedError struct {
	Reason string
}

func (e *ModerationRejectedError) Error() string {
	return "Message failed content moderation: " + e.Reason
}

// Result: 이모지 생성 결과입니다.
type Result struct {
	Emojis  []string
	Names   []string
	Message string
	// ModerationPassed: 검열을 건너뛰었으면 nil 입니다.
	ModerationPassed *bool
}

// Service: 메시지 검증, 검열, 이모지 생성 흐름을 담당합니다.
type Service struct {
	cfg        *config.Config
	backend    llm.Backend
	moderator  *moderation.Moderator
	prompts    *emojichatdomain.Prompts
	collectors *metrics.Collectors
	logger     *slog.Logger
}

// New: Service 인스턴스를 생성합니다.
func New(
	cfg *config.Config,
	backend llm.Backend,
	moderator *moderation.Moderator,
	prompts *emojichatdomain.Prompts,
	collectors *metrics.Collectors,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:        cfg,
		backend:    backend,
		moderator:  moderator,
		prompts:    prompts,
		collectors: collectors,
		logger:     logger,
	}
}

// ModerationEnabled: 전역 검열 설정을 반환합니다.
func (s *Service) ModerationEnabled() bool {
	return s.cfg.Moderation.Enabled && s.moderator != nil
}

// Generate: 메시지를 검증하고, 필요하면 검열한 뒤 이모지를 생성합니다.
// 백엔드 실패는 기본 이모지로 흡수되며 오류는 검증 실패와 검열 거부뿐입니다.
func (s *Service) Generate(ctx context.Context, message string, skipModeration bool) (Result, error) {
	trimmed, err := emojichatdomain.NormalizeMessage(message, emojichatdomain.MessageRules{
		MinLength: s.cfg.Message.MinLength,
		MaxLength: s.cfg.Message.MaxLength,
	})
	if err != nil {
		s.collectors.ObserveEmojiRequest(metrics.OutcomeInvalid)
		return Result{}, err
	}

	verdict := moderation.NotEvaluated()
	if !skipModeration && s.ModerationEnabled() {
		verdict = s.moderator.Check(ctx, trimmed)
		if verdict.IsUnsafe() {
			s.collectors.ObserveEmojiRequest(metrics.OutcomeRejected)
			s.logger.InfoContext(ctx, "moderation_rejected", "reason", verdict.Reason)
			return Result{}, &ModerationRejectedError{Reason: verdict.Reason}
		}
	}

	emojis, generated := s.generateEmojis(ctx, trimmed)
	if generated {
		s.collectors.ObserveEmojiRequest(metrics.OutcomeOK)
	} else {
		s.collectors.ObserveEmojiRequest(metrics.OutcomeFallback)
	}

	s.logger.InfoContext(ctx, "emoji_generated",
		"count", len(emojis),
		"moderation", verdict.Label(),
		"fallback", !generated,
	)

	return Result{
		Emojis:           emojis,
		Names:            emoji.Names(emojis),
		Message:          trimmed,
		ModerationPassed: verdict.Passed(),
	}, nil
}

func (s *Service) generateEmojis(ctx context.Context, message string) ([]string, bool) {
	prompt, err := s.prompts.Emoji(message)
	if err != nil {
		s.logger.ErrorContext(ctx, "emoji_prompt_failed", "err", err)
		return emoji.DefaultEmojis(), false
	}

	result, err := s.backend.Generate(ctx, llm.Request{Prompt: prompt, Purpose: purposeEmoji})
	return emoji.ExtractOrDefault(result.Text, err), err == nil
}

// Sample: 예시 문장을 생성합니다. 실패하면 기본 문장을 반환합니다.
func (s *Service) Sample(ctx context.Context) string {
	sample, err := s.GenerateSample(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "sample_fallback", "err", err)
		return emojichatdomain.DefaultSampleSentence
	}
	s.logger.InfoContext(ctx, "sample_generated", "length", len([]rune(sample)))
	return sample
}

// GenerateSample: 예시 문장을 생성하고 백엔드 오류를 그대로 반환합니다.
// 기동 시 연결 확인에 사용합니다.
func (s *Service) GenerateSample(ctx context.Context) (string, error) {
	prompt, err := s.prompts.Sample()
	if err != nil {
		return "", fmt.Errorf("render sample prompt: %w", err)
	}
	result, err := s.backend.Generate(ctx, llm.Request{Prompt: prompt, Purpose: purposeSample})
	if err != nil {
		return "", err
	}
	return emojichatdomain.CleanSample(result.Text), nil
}
