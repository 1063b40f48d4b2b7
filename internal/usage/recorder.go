package usage

import (
	"context"
	"log/slog"
	"time"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
)

// Recorder: 백엔드 호출별 토큰 사용량을 저장합니다.
// nil Recorder 와 저장소 없는 Recorder 는 아무 것도 하지 않습니다.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// NewRecorder: Recorder 를 생성합니다.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record: 1회 호출의 토큰 사용량을 기록합니다. 저장 실패는 로그만 남깁니다.
func (r *Recorder) Record(ctx context.Context, usage llm.Usage) {
	if r == nil || r.store == nil {
		return
	}
	if usage.InputTokens <= 0 && usage.OutputTokens <= 0 {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := r.store.RecordUsage(saveCtx, int64(usage.InputTokens), int64(usage.OutputTokens), 1, time.Time{})
	if err != nil && r.logger != nil {
		r.logger.Warn("usage_db_save_failed", "err", err)
	}
}

// Close: 저장소를 닫습니다.
func (r *Recorder) Close() {
	if r == nil || r.store == nil {
		return
	}
	r.store.Close()
}
