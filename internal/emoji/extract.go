// Package emoji: 모델 응답 텍스트에서 이모지 토큰을 추출합니다.
package emoji

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// MaxEmojis: 응답에 포함되는 최대 이모지 수입니다.
const MaxEmojis = 5

const (
	smilingFace = "😊"
	thumbsUp    = "👍"
)

// DefaultEmojis: 추출 결과가 없을 때 쓰는 기본 목록입니다. 호출마다 새 슬라이스를 반환합니다.
func DefaultEmojis() []string {
	return []string{smilingFace, thumbsUp}
}

// Extract: 원문에서 중복 없는 이모지 토큰을 최대 MaxEmojis 개까지 순서대로 반환합니다.
// 결과는 항상 1개 이상입니다.
func Extract(raw string) []string {
	seen := make(map[string]struct{}, MaxEmojis)
	result := make([]string, 0, MaxEmojis)

	for _, candidate := range strings.Fields(raw) {
		for _, token := range candidateTokens(candidate) {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			result = append(result, token)
			if len(result) == MaxEmojis {
				return result
			}
		}
	}

	if len(result) == 0 {
		return DefaultEmojis()
	}
	return result
}

// ExtractOrDefault: 백엔드 호출이 실패했으면 기본 목록을, 아니면 Extract 결과를 반환합니다.
func ExtractOrDefault(raw string, err error) []string {
	if err != nil {
		return DefaultEmojis()
	}
	return Extract(raw)
}

func candidateTokens(candidate string) []string {
	candidate = strings.ToValidUTF8(strings.TrimSpace(candidate), "")
	if candidate == "" || !containsBase(candidate) {
		return nil
	}
	if utf8.RuneCountInString(candidate) <= 2 || uniseg.GraphemeClusterCount(candidate) == 1 {
		return []string{candidate}
	}
	return splitTokens(candidate)
}

func containsBase(s string) bool {
	for _, r := range s {
		if classify(r) == classBase {
			return true
		}
	}
	return false
}
