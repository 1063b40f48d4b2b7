package moderation

import "strings"

// Kind: 검열 판정 종류입니다.
type Kind int

const (
	// KindNotEvaluated: 검열을 건너뛰었습니다. Safe 와 구분됩니다.
	KindNotEvaluated Kind = iota
	// KindSafe: 통과.
	KindSafe
	// KindUnsafe: 거부. Reason 에 사유가 담깁니다.
	KindUnsafe
)

const (
	// ReasonUnavailable: 검열 백엔드 호출 실패 시 사유입니다.
	ReasonUnavailable = "moderation service unavailable"
	// ReasonUnexpected: SAFE/UNSAFE 로 시작하지 않는 응답의 사유입니다.
	ReasonUnexpected = "unexpected moderation result"
	// ReasonFlagged: UNSAFE 응답에 사유가 없을 때의 기본 사유입니다.
	ReasonFlagged = "content flagged by moderation"
	// ReasonInjection: 로컬 가드가 차단했을 때의 사유입니다.
	ReasonInjection = "prompt injection detected"
)

// Verdict: 검열 결과입니다.
type Verdict struct {
	Kind   Kind
	Reason string
}

// Safe: 통과 판정을 만듭니다.
func Safe() Verdict {
	return Verdict{Kind: KindSafe}
}

// Unsafe: 거부 판정을 만듭니다. 빈 사유는 ReasonFlagged 로 대체합니다.
func Unsafe(reason string) Verdict {
	if strings.TrimSpace(reason) == "" {
		reason = ReasonFlagged
	}
	return Verdict{Kind: KindUnsafe, Reason: reason}
}

// NotEvaluated: 검열 생략 판정을 만듭니다.
func NotEvaluated() Verdict {
	return Verdict{Kind: KindNotEvaluated}
}

// IsSafe: 통과 여부를 반환합니다.
func (v Verdict) IsSafe() bool { return v.Kind == KindSafe }

// IsUnsafe: 거부 여부를 반환합니다.
func (v Verdict) IsUnsafe() bool { return v.Kind == KindUnsafe }

// Passed: 응답의 moderation_passed 값입니다. 검열하지 않았으면 nil 입니다.
func (v Verdict) Passed() *bool {
	if v.Kind == KindNotEvaluated {
		return nil
	}
	passed := v.Kind == KindSafe
	return &passed
}

// Label: 메트릭/로그용 문자열입니다.
func (v Verdict) Label() string {
	switch v.Kind {
	case KindSafe:
		return "safe"
	case KindUnsafe:
		return "unsafe"
	default:
		return "not_evaluated"
	}
}

// ParseVerdict: 검열 모델 응답을 판정으로 변환합니다.
// 대문자 변환 후 SAFE/UNSAFE 접두어를 봅니다. 그 외 응답은 거부로 처리합니다.
func ParseVerdict(raw string) Verdict {
	text := strings.TrimSpace(strings.ToUpper(raw))
	switch {
	case strings.HasPrefix(text, "SAFE"):
		return Safe()
	case strings.HasPrefix(text, "UNSAFE"):
		_, reason, found := strings.Cut(text, ":")
		if !found {
			return Unsafe(ReasonFlagged)
		}
		return Unsafe(strings.TrimSpace(reason))
	default:
		return Unsafe(ReasonUnexpected)
	}
}
