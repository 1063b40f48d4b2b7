package llm

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable: 백엔드 호출이 실패했음을 나타냅니다.
// 네트워크 오류, 타임아웃, 2xx 가 아닌 상태, 잘못된 응답이 모두 여기에 해당합니다.
var ErrUnavailable = errors.New("llm backend unavailable")

// ErrEmptyPrompt: 빈 프롬프트로 호출했을 때 반환됩니다.
var ErrEmptyPrompt = errors.New("prompt is empty")

// Request: 단일 생성 요청입니다. 0 값 필드는 클라이언트 기본값을 사용합니다.
type Request struct {
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// Purpose: 메트릭/로그 라벨 (moderation, emoji, sample).
	Purpose string
}

// Usage: 토큰 사용량 정보를 담습니다.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Result: 생성 결과입니다. Text 는 앞뒤 공백이 제거되어 있습니다.
type Result struct {
	Text  string
	Model string
	Usage Usage
}

// Backend: 언어 모델 백엔드 계약입니다. 구현체는 동시 호출에 안전해야 합니다.
type Backend interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// Pinger: 백엔드 연결 상태를 확인할 수 있는 구현체입니다.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ModelLister: 사용 가능한 모델 목록을 제공하는 구현체입니다.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Unavailable: cause 를 ErrUnavailable 로 감쌉니다.
func Unavailable(op string, cause error) error {
	if cause == nil {
		return &BackendError{Op: op}
	}
	return &BackendError{Op: op, Err: cause}
}

// BackendError: 실패한 백엔드 작업과 원인을 담습니다.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return "llm backend unavailable: " + e.Op
	}
	return "llm backend unavailable: " + e.Op + ": " + e.Err.Error()
}

// Is: errors.Is(err, ErrUnavailable) 를 만족시킵니다.
func (e *BackendError) Is(target error) bool {
	return target == ErrUnavailable
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
