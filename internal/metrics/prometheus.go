package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// OutcomeOK: 이모지 생성 성공.
	OutcomeOK = "ok"
	// OutcomeFallback: 백엔드 실패로 기본 이모지를 반환.
	OutcomeFallback = "fallback"
	// OutcomeRejected: 검열 거부.
	OutcomeRejected = "rejected"
	// OutcomeInvalid: 입력 검증 실패.
	OutcomeInvalid = "invalid"
)

// Collectors: Prometheus 카운터 묶음입니다.
type Collectors struct {
	EmojiRequests      *prometheus.CounterVec
	ModerationVerdicts *prometheus.CounterVec
	LLMCalls           *prometheus.CounterVec
}

// NewCollectors: reg 에 카운터를 등록합니다. reg 가 nil 이면 기본 레지스트리를 사용합니다.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Collectors{
		EmojiRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emoji_requests_total",
				Help: "Emoji generation requests by outcome",
			},
			[]string{"outcome"},
		),
		ModerationVerdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderation_verdicts_total",
				Help: "Moderation verdicts by kind",
			},
			[]string{"verdict"},
		),
		LLMCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_calls_total",
				Help: "Backend generate calls by purpose and result",
			},
			[]string{"purpose", "result"},
		),
	}
}

// ObserveEmojiRequest: 요청 결과를 기록합니다. nil 수신자는 무시합니다.
func (c *Collectors) ObserveEmojiRequest(outcome string) {
	if c == nil {
		return
	}
	c.EmojiRequests.WithLabelValues(outcome).Inc()
}

// ObserveVerdict: 검열 판정을 기록합니다.
func (c *Collectors) ObserveVerdict(verdict string) {
	if c == nil {
		return
	}
	c.ModerationVerdicts.WithLabelValues(verdict).Inc()
}

// ObserveLLMCall: 백엔드 호출 결과를 기록합니다.
func (c *Collectors) ObserveLLMCall(purpose string, ok bool) {
	if c == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	if purpose == "" {
		purpose = "unknown"
	}
	c.LLMCalls.WithLabelValues(purpose, result).Inc()
}
