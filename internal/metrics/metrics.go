package metrics

import (
	"sync/atomic"
	"time"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
)

// Store 는 프로세스 기동 이후의 LLM 호출 누계다. /api/llm/metrics 가 그대로 내보낸다.
// 프로메테우스 수집기와 달리 재시작하면 0 부터 다시 센다.
type Store struct {
	calls        atomic.Int64
	errors       atomic.Int64
	inputTokens  atomic.Int64
	outputTokens atomic.Int64
	durationMs   atomic.Int64
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) RecordSuccess(duration time.Duration, usage llm.Usage) {
	s.record(duration)
	s.inputTokens.Add(int64(usage.InputTokens))
	s.outputTokens.Add(int64(usage.OutputTokens))
}

// RecordError: 실패 호출도 호출 수와 소요 시간에는 포함합니다.
func (s *Store) RecordError(duration time.Duration) {
	s.record(duration)
	s.errors.Add(1)
}

func (s *Store) record(duration time.Duration) {
	s.calls.Add(1)
	s.durationMs.Add(duration.Milliseconds())
}

func (s *Store) UsageTotals() llm.Usage {
	input, output := s.inputTokens.Load(), s.outputTokens.Load()
	return llm.Usage{
		InputTokens:  int(input),
		OutputTokens: int(output),
		TotalTokens:  int(input + output),
	}
}

// Snapshot: 호출이 없으면 평균과 오류율은 0 입니다.
func (s *Store) Snapshot() map[string]float64 {
	calls := float64(s.calls.Load())
	errs := float64(s.errors.Load())
	input := float64(s.inputTokens.Load())
	output := float64(s.outputTokens.Load())
	duration := float64(s.durationMs.Load())

	snapshot := map[string]float64{
		"total_calls":         calls,
		"total_errors":        errs,
		"total_input_tokens":  input,
		"total_output_tokens": output,
		"total_tokens":        input + output,
		"total_duration_ms":   duration,
		"avg_duration_ms":     0,
		"error_rate":          0,
	}
	if calls > 0 {
		snapshot["avg_duration_ms"] = duration / calls
		snapshot["error_rate"] = errs / calls
	}
	return snapshot
}
