package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	emojichatdomain "github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/domain/emojichat"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/guard"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/usecase/emojichat"
)

// ErrorCode 는 API 오류 코드다.
type ErrorCode string

// 응답의 error_code 값.
const (
	ErrorCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrorCodeModerationRejected ErrorCode = "MODERATION_REJECTED"
	ErrorCodeGuardBlocked       ErrorCode = "GUARD_BLOCKED"
	ErrorCodeLLMUnavailable     ErrorCode = "LLM_UNAVAILABLE"
	ErrorCodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	ErrorCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrorCodeHTTPRateLimit      ErrorCode = "HTTP_RATE_LIMIT"
)

const internalErrorDetail = "An unexpected error occurred"

// ErrorResponse 는 API 오류 응답 본문이다.
// error/detail 은 기존 프론트엔드가 읽는 필드다.
type ErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	Error     string         `json:"error"`
	Detail    string         `json:"detail"`
	RequestID *string        `json:"request_id"`
	Details   map[string]any `json:"details"`
}

// Error 는 내부 표준 오류 타입이다.
type Error struct {
	Code    ErrorCode
	Status  int
	Title   string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// Response 는 오류를 HTTP 응답으로 변환한다.
func Response(err error, requestID string) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternalError()
	}

	var requestIDPtr *string
	if requestID != "" {
		requestIDPtr = &requestID
	}

	return apiErr.Status, ErrorResponse{
		ErrorCode: string(apiErr.Code),
		Error:     apiErr.Title,
		Detail:    apiErr.Message,
		RequestID: requestIDPtr,
		Details:   apiErr.Details,
	}
}

// FromError 는 오류를 내부 오류 타입으로 변환한다. 알 수 없는 오류는 세부 내용을 숨긴다.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var messageErr *emojichatdomain.ValidationError
	if errors.As(err, &messageErr) {
		return NewMessageValidationError(messageErr)
	}

	var rejected *emojichat.ModerationRejectedError
	if errors.As(err, &rejected) {
		return NewModerationRejected(rejected.Reason)
	}

	var blocked *guard.BlockedError
	if errors.As(err, &blocked) {
		return NewGuardBlocked(blocked.Score, blocked.Threshold)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewLLMTimeoutError("LLM request timed out")
	}

	if errors.Is(err, llm.ErrUnavailable) {
		return NewLLMUnavailable("LLM backend unavailable")
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return NewValidationError(err)
	}

	return NewInternalError()
}

type codeInfo struct {
	status int
	title  string
}

var codes = map[ErrorCode]codeInfo{
	ErrorCodeInternal:           {http.StatusInternalServerError, "Internal server error"},
	ErrorCodeValidation:         {http.StatusUnprocessableEntity, "Validation error"},
	ErrorCodeModerationRejected: {http.StatusBadRequest, "Moderation rejected"},
	ErrorCodeGuardBlocked:       {http.StatusBadRequest, "Input blocked"},
	ErrorCodeLLMUnavailable:     {http.StatusServiceUnavailable, "LLM unavailable"},
	ErrorCodeLLMTimeout:         {http.StatusGatewayTimeout, "LLM timeout"},
	ErrorCodeUnauthorized:       {http.StatusUnauthorized, "Unauthorized"},
	ErrorCodeHTTPRateLimit:      {http.StatusTooManyRequests, "Too many requests"},
}

// New: 코드에 맞는 상태와 제목을 채웁니다. 등록되지 않은 코드는 500 입니다.
func New(code ErrorCode, message string, details map[string]any) *Error {
	info, ok := codes[code]
	if !ok {
		info = codes[ErrorCodeInternal]
	}
	return &Error{Code: code, Status: info.status, Title: info.title, Message: message, Details: details}
}

func NewInternalError() *Error {
	return New(ErrorCodeInternal, internalErrorDetail, nil)
}

// NewValidationError: validator 오류면 필드별 상세를, 그 밖의 오류는 body 필드 하나로 담습니다.
func NewValidationError(err error) *Error {
	return New(ErrorCodeValidation, "Input validation failed", validationDetails(err))
}

// NewMessageValidationError: 공백 메시지나 길이 위반을 422 로 바꿉니다.
func NewMessageValidationError(err *emojichatdomain.ValidationError) *Error {
	return New(ErrorCodeValidation, err.Reason, map[string]any{
		"errors": []FieldError{{Field: err.Field, Message: err.Reason, Value: err.Rule}},
	})
}

func NewModerationRejected(reason string) *Error {
	return New(ErrorCodeModerationRejected, "Message failed content moderation: "+reason,
		map[string]any{"reason": reason})
}

func NewUnauthorized(details map[string]any) *Error {
	return New(ErrorCodeUnauthorized, "Invalid API key", details)
}

func NewRateLimitExceeded(details map[string]any) *Error {
	return New(ErrorCodeHTTPRateLimit, "Rate limit exceeded", details)
}

func NewGuardBlocked(score float64, threshold float64) *Error {
	return New(ErrorCodeGuardBlocked,
		fmt.Sprintf("Input blocked by injection guard (score=%.2f, threshold=%.2f)", score, threshold),
		map[string]any{"score": score, "threshold": threshold})
}

func NewLLMUnavailable(message string) *Error {
	return New(ErrorCodeLLMUnavailable, message, nil)
}

func NewLLMTimeoutError(message string) *Error {
	return New(ErrorCodeLLMTimeout, message, nil)
}

// FieldError 는 필드 오류 상세 정보다.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

func validationDetails(err error) map[string]any {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, validationErr := range validationErrors {
			fields = append(fields, FieldError{
				Field:   validationErr.Field(),
				Message: validationErr.Error(),
				Value:   validationErr.Value(),
			})
		}
		return map[string]any{"errors": fields}
	}

	return map[string]any{
		"errors": []FieldError{
			{
				Field:   "body",
				Message: err.Error(),
				Value:   nil,
			},
		},
	}
}
