package prompt

import (
	"fmt"
	"strings"
)

// FormatTemplate: {key} 자리표시자를 값으로 치환합니다. {{ 와 }} 는 리터럴 중괄호입니다.
func FormatTemplate(template string, values map[string]string) (string, error) {
	var builder strings.Builder
	builder.Grow(len(template))

	err := scanTemplate(template, func(literal string) {
		builder.WriteString(literal)
	}, func(key string) error {
		value, ok := values[key]
		if !ok {
			return fmt.Errorf("missing template value for %q", key)
		}
		builder.WriteString(value)
		return nil
	})
	if err != nil {
		return "", err
	}
	return builder.String(), nil
}

// Placeholders: 템플릿이 참조하는 키 목록을 등장 순서대로 반환합니다.
func Placeholders(template string) ([]string, error) {
	var keys []string
	err := scanTemplate(template, func(string) {}, func(key string) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func scanTemplate(template string, onLiteral func(string), onKey func(string) error) error {
	for i := 0; i < len(template); {
		switch template[i] {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				onLiteral("{")
				i += 2
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return fmt.Errorf("invalid template: missing '}'")
			}
			if err := onKey(template[i+1 : i+1+end]); err != nil {
				return err
			}
			i += end + 2
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				onLiteral("}")
				i += 2
				continue
			}
			return fmt.Errorf("invalid template: unexpected '}'")
		default:
			next := strings.IndexAny(template[i:], "{}")
			if next < 0 {
				onLiteral(template[i:])
				return nil
			}
			onLiteral(template[i : i+next])
			i += next
		}
	}
	return nil
}
