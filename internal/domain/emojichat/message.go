package emojichat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var messageValidator = validator.New()

// MessageRules: 메시지 길이 제한(룬 단위)입니다.
type MessageRules struct {
	MinLength int
	MaxLength int
}

// ValidationError: 메시지 검증 실패입니다.
type ValidationError struct {
	Field  string
	Rule   string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NormalizeMessage: 앞뒤 공백을 제거하고 길이 제한을 검사합니다. 반환값은 응답에 그대로 되돌려 줍니다.
func NormalizeMessage(raw string, rules MessageRules) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &ValidationError{
			Field:  "message",
			Rule:   "required",
			Reason: "Message cannot be empty or only whitespace",
		}
	}

	tag := fmt.Sprintf("min=%d,max=%d", rules.MinLength, rules.MaxLength)
	err := messageValidator.Var(trimmed, tag)
	if err == nil {
		return trimmed, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "", fmt.Errorf("validate message: %w", err)
	}

	switch fieldErrs[0].Tag() {
	case "min":
		return "", &ValidationError{
			Field:  "message",
			Rule:   "min",
			Reason: fmt.Sprintf("Message too short. Minimum length: %d", rules.MinLength),
		}
	case "max":
		return "", &ValidationError{
			Field:  "message",
			Rule:   "max",
			Reason: fmt.Sprintf("Message too long. Maximum length: %d", rules.MaxLength),
		}
	default:
		return "", &ValidationError{Field: "message", Rule: fieldErrs[0].Tag(), Reason: "Invalid message"}
	}
}
