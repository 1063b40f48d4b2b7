package guard

import "fmt"

// Guard 는 사용자 메시지를 모더레이션 프롬프트에 넣기 전에 프롬프트 인젝션을 점수화한다.
type Guard interface {
	Evaluate(input string) Evaluation
	// EnsureSafe: 임계값 이상이면 *BlockedError 를 반환합니다.
	EnsureSafe(input string) error
	IsMalicious(input string) bool
}

var _ Guard = (*InjectionGuard)(nil)

// Match 는 입력에 걸린 규칙 하나다. 구절 규칙의 ID 는 "phrase:<구절>" 형태다.
type Match struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// Evaluation 은 가중치 합계와 판정 기준을 함께 담는다.
type Evaluation struct {
	Score     float64 `json:"score"`
	Hits      []Match `json:"hits"`
	Threshold float64 `json:"threshold"`
}

func (e Evaluation) Malicious() bool {
	return e.Score >= e.Threshold
}

// BlockedError 는 httperror 에서 GUARD_BLOCKED 로 변환된다.
type BlockedError struct {
	Score     float64
	Threshold float64
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("guard blocked message: score %.2f >= threshold %.2f", e.Score, e.Threshold)
}
