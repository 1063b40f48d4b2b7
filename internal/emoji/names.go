package emoji

import (
	"strings"

	"github.com/forPelevin/gomoji"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Name: 이모지의 읽기 쉬운 이름을 반환합니다. 알 수 없는 이모지는 자기 자신을 반환합니다.
func Name(value string) string {
	info, err := gomoji.GetInfo(value)
	if err != nil {
		trimmed := strings.TrimRight(value, "\ufe0f\ufe0e")
		if trimmed == value || trimmed == "" {
			return value
		}
		info, err = gomoji.GetInfo(trimmed)
		if err != nil {
			return value
		}
	}

	label := info.Slug
	if label == "" {
		label = info.UnicodeName
	}
	label = strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(label))
	if label == "" {
		return value
	}
	return titleCaser.String(label)
}

// Names: 각 이모지의 이름을 같은 순서로 반환합니다.
func Names(values []string) []string {
	names := make([]string, 0, len(values))
	for _, value := range values {
		names = append(names, Name(value))
	}
	return names
}

// Strip: 텍스트에서 이모지를 제거합니다.
func Strip(text string) string {
	return gomoji.RemoveEmojis(text)
}
