package guard

import (
	"embed"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/cache"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
)

const (
	defaultThreshold = 0.7
	base64RuleID     = "base64_payload"
	logPreviewRunes  = 50
)

//go:embed rulepacks/*.yml
var embeddedRulepacks embed.FS

// InjectionGuard 는 정규화한 메시지를 룰팩과 대조해 점수를 매긴다.
// 같은 입력의 평가는 TTL 캐시에 남고, 동시에 들어온 같은 입력은 한 번만 평가된다.
type InjectionGuard struct {
	cfg    config.GuardConfig
	logger *slog.Logger
	packs  []rulepack
	cache  *cache.TTLCache[string, Evaluation]
	group  singleflight.Group
}

// NewGuard: RulepacksDir 이 비어 있으면 바이너리에 내장된 룰팩을 읽습니다.
func NewGuard(cfg config.GuardConfig, logger *slog.Logger) (*InjectionGuard, error) {
	if !cfg.Enabled {
		return NewGuardFromFS(cfg, nil, logger), nil
	}
	if cfg.RulepacksDir != "" {
		return NewGuardFromFS(cfg, os.DirFS(cfg.RulepacksDir), logger), nil
	}
	builtin, err := fs.Sub(embeddedRulepacks, "rulepacks")
	if err != nil {
		return nil, err
	}
	return NewGuardFromFS(cfg, builtin, logger), nil
}

// NewGuardFromFS: rules 루트의 룰팩으로 가드를 만듭니다. 테스트에서는 fstest.MapFS 를 넘깁니다.
func NewGuardFromFS(cfg config.GuardConfig, rules fs.FS, logger *slog.Logger) *InjectionGuard {
	if logger == nil {
		logger = slog.Default()
	}
	g := &InjectionGuard{
		cfg:    cfg,
		logger: logger,
		cache:  cache.NewTTLCache[string, Evaluation](cfg.CacheMaxSize, time.Duration(cfg.CacheTTLSeconds)*time.Second),
	}
	if cfg.Enabled && rules != nil {
		g.packs = loadRulepacks(rules, logger)
		logger.Info("guard_ready", "packs", len(g.packs), "threshold", g.threshold())
	}
	return g
}

func (g *InjectionGuard) Enabled() bool {
	return g != nil && g.cfg.Enabled
}

// Evaluate: 꺼진 가드는 임계값 +Inf 로 어떤 입력도 통과시킵니다.
func (g *InjectionGuard) Evaluate(input string) Evaluation {
	if !g.Enabled() {
		return Evaluation{Threshold: math.Inf(1)}
	}
	if cached, ok := g.cache.Get(input); ok {
		return cached
	}

	value, _, _ := g.group.Do(input, func() (any, error) {
		evaluation := g.score(input)
		g.cache.Set(input, evaluation)
		return evaluation, nil
	})
	evaluation, ok := value.(Evaluation)
	if !ok {
		return Evaluation{Threshold: g.threshold()}
	}
	return evaluation
}

func (g *InjectionGuard) EnsureSafe(input string) error {
	if evaluation := g.Evaluate(input); evaluation.Malicious() {
		return &BlockedError{Score: evaluation.Score, Threshold: evaluation.Threshold}
	}
	return nil
}

func (g *InjectionGuard) IsMalicious(input string) bool {
	return g.Evaluate(input).Malicious()
}

// threshold: 설정값이 우선이고, 없으면 룰팩 임계값 중 가장 큰 값을 씁니다.
func (g *InjectionGuard) threshold() float64 {
	if g.cfg.Threshold > 0 {
		return g.cfg.Threshold
	}
	highest := 0.0
	for _, pack := range g.packs {
		highest = max(highest, pack.threshold)
	}
	if highest > 0 {
		return highest
	}
	return defaultThreshold
}

// score: 숨겨진 base64 페이로드는 룰팩과 상관없이 임계값 점수로 바로 차단합니다.
func (g *InjectionGuard) score(input string) Evaluation {
	threshold := g.threshold()
	if containsSuspiciousBase64(input) {
		g.logger.Warn("guard_base64_payload_blocked", "input", trimForLog(input))
		return Evaluation{
			Score:     threshold,
			Hits:      []Match{{ID: base64RuleID, Weight: threshold}},
			Threshold: threshold,
		}
	}

	evaluation := Evaluation{Hits: make([]Match, 0), Threshold: threshold}
	normalized := normalizeInput(input)
	for _, pack := range g.packs {
		score, hits := pack.match(normalized)
		evaluation.Score += score
		evaluation.Hits = append(evaluation.Hits, hits...)
	}
	if evaluation.Malicious() {
		g.logger.Warn("guard_blocked",
			"score", evaluation.Score,
			"threshold", threshold,
			"hits", len(evaluation.Hits),
			"input", trimForLog(input),
		)
	}
	return evaluation
}

func trimForLog(value string) string {
	value = strings.TrimSpace(value)
	runes := 0
	for i := range value {
		if runes == logPreviewRunes {
			return value[:i]
		}
		runes++
	}
	return value
}
