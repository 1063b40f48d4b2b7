package health

import (
	"context"
	"time"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
)

const (
	// StatusHealthy: 정상 상태 문자열입니다.
	StatusHealthy = "healthy"
	// StatusDegraded: 일부 구성 요소가 비정상인 상태입니다.
	StatusDegraded = "degraded"

	componentOK       = "ok"
	componentDegraded = "degraded"
	componentSkipped  = "skipped"

	pingTimeout = 3 * time.Second
)

var startTime = time.Now()

// Component 는 상태 구성 요소다.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response 는 상태 응답 본문이다.
type Response struct {
	Status                   string               `json:"status"`
	LLMProvider              string               `json:"llm_provider"`
	LLMURL                   string               `json:"llm_url"`
	LLMModel                 string               `json:"llm_model"`
	ContentModerationEnabled bool                 `json:"content_moderation_enabled"`
	ModerationModel          string               `json:"moderation_model"`
	Components               map[string]Component `json:"components"`
}

// Collect 는 헬스 상태를 수집한다. deepChecks 가 true 이면 백엔드에 ping 을 보낸다.
func Collect(ctx context.Context, cfg *config.Config, backend llm.Backend, deepChecks bool) Response {
	if cfg == nil {
		cfg = &config.Config{}
	}
	components := map[string]Component{
		"app":        buildAppStatus(),
		"llm":        buildLLMStatus(ctx, cfg, backend, deepChecks),
		"guard":      buildGuardStatus(cfg),
		"rate_limit": buildRateLimitStatus(cfg),
		"usage":      buildUsageStatus(cfg),
	}

	overall := StatusHealthy
	for _, component := range components {
		if component.Status == componentDegraded {
			overall = StatusDegraded
			break
		}
	}

	return Response{
		Status:                   overall,
		LLMProvider:              cfg.LLM.Provider,
		LLMURL:                   cfg.LLM.BaseURL,
		LLMModel:                 cfg.LLM.DefaultModel,
		ContentModerationEnabled: cfg.Moderation.Enabled,
		ModerationModel:          cfg.LLM.ModelForTask("moderation"),
		Components:               components,
	}
}

func buildAppStatus() Component {
	return Component{
		Status: componentOK,
		Detail: map[string]any{
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		},
	}
}

func buildLLMStatus(ctx context.Context, cfg *config.Config, backend llm.Backend, deepChecks bool) Component {
	detail := map[string]any{
		"provider":        cfg.LLM.Provider,
		"default_model":   cfg.LLM.DefaultModel,
		"timeout_seconds": cfg.LLM.TimeoutSeconds,
		"deep_checked":    deepChecks,
	}
	if cfg.LLM.Provider == config.ProviderGemini {
		detail["api_key_present"] = cfg.LLM.PrimaryKey() != ""
	}

	if !deepChecks {
		return Component{Status: componentOK, Detail: detail}
	}

	pinger, ok := backend.(llm.Pinger)
	if !ok {
		detail["reachable"] = nil
		return Component{Status: componentSkipped, Detail: detail}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pingTimeout)
	defer cancel()

	startedAt := time.Now()
	err := pinger.Ping(checkCtx)
	detail["latency_ms"] = time.Since(startedAt).Milliseconds()
	if err != nil {
		detail["reachable"] = false
		detail["error"] = err.Error()
		return Component{Status: componentDegraded, Detail: detail}
	}
	detail["reachable"] = true
	return Component{Status: componentOK, Detail: detail}
}

func buildGuardStatus(cfg *config.Config) Component {
	source := "embedded"
	if cfg.Guard.RulepacksDir != "" {
		source = cfg.Guard.RulepacksDir
	}
	return Component{
		Status: componentOK,
		Detail: map[string]any{
			"enabled":   cfg.Guard.Enabled,
			"threshold": cfg.Guard.Threshold,
			"rulepacks": source,
		},
	}
}

func buildRateLimitStatus(cfg *config.Config) Component {
	backend := "memory"
	if cfg.HTTPRateLimit.StoreURL != "" {
		backend = "valkey"
	}
	return Component{
		Status: componentOK,
		Detail: map[string]any{
			"enabled":          cfg.HTTPRateLimit.RequestsPerMinute > 0,
			"requests_per_min": cfg.HTTPRateLimit.RequestsPerMinute,
			"counter_backend":  backend,
		},
	}
}

func buildUsageStatus(cfg *config.Config) Component {
	return Component{
		Status: componentOK,
		Detail: map[string]any{
			"enabled":  cfg.Database.UsageEnabled,
			"database": cfg.Database.Name,
		},
	}
}
