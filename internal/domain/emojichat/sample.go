package emojichat

import (
	"strings"
	"unicode/utf8"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/emoji"
)

const (
	// DefaultSampleSentence: 예시 문장 생성이 실패했을 때 쓰는 문장입니다.
	DefaultSampleSentence = "Every small step forward is still progress worth celebrating."
	// MaxSampleLength: 예시 문장의 최대 길이(룬)입니다.
	MaxSampleLength = 100
)

var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"“", "”"},
	{"‘", "’"},
	{"`", "`"},
}

// CleanSample: 모델이 만든 문장을 다듬습니다.
// 감싼 따옴표와 이모지를 제거하고, 비었거나 너무 길면 기본 문장을 반환합니다.
func CleanSample(raw string) string {
	text := strings.TrimSpace(emoji.Strip(raw))
	text = stripQuotes(text)
	text = strings.Join(strings.Fields(text), " ")

	if text == "" || utf8.RuneCountInString(text) > MaxSampleLength {
		return DefaultSampleSentence
	}
	return text
}

func stripQuotes(text string) string {
	for {
		stripped := false
		for _, pair := range quotePairs {
			if len(text) >= len(pair[0])+len(pair[1]) &&
				strings.HasPrefix(text, pair[0]) && strings.HasSuffix(text, pair[1]) {
				text = strings.TrimSpace(text[len(pair[0]) : len(text)-len(pair[1])])
				stripped = true
			}
		}
		if !stripped {
			return text
		}
	}
}
