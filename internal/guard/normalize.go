package guard

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mtibben/confusables"
	"github.com/ymw0407/jamo/pkg/jamo"
	"golang.org/x/text/unicode/norm"
)

var (
	hangulSyllables = &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0xAC00, Hi: 0xD7A3, Stride: 1},
		},
	}
	hangulJamo = &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x1100, Hi: 0x11FF, Stride: 1}, // Hangul Jamo
			{Lo: 0x3130, Hi: 0x318F, Stride: 1}, // Compatibility Jamo
			{Lo: 0xA960, Hi: 0xA97F, Stride: 1}, // Extended-A
			{Lo: 0xD7B0, Hi: 0xD7FF, Stride: 1}, // Extended-B
		},
	}
)

func isJamo(r rune) bool {
	return unicode.Is(hangulJamo, r)
}

func isKorean(r rune) bool {
	return unicode.Is(hangulSyllables, r) || isJamo(r)
}

// normalizeInput: 룰 매칭 전에 우회 표기를 되돌립니다.
// 자모 조합, NFC, 비한글 구간 skeleton + NFKC, 서식 문자 제거 순서입니다.
func normalizeInput(input string) string {
	return normalizeText(composeJamoSequences(input))
}

// composeJamoSequences: 연속된 자모 구간을 완성형으로 조합합니다. 조합할 수 없는 구간은 그대로 둡니다.
// 예: "시스템 ㅍㅡㄹㅗㅁㅍㅡㅌㅡ" → "시스템 프롬프트"
func composeJamoSequences(text string) string {
	if !strings.ContainsFunc(text, isJamo) {
		return text
	}
	return rewriteRuns(text, isJamo, composeJamoRun)
}

func composeJamoRun(run string) string {
	composed, err := jamo.ComposeHangeul(run)
	if err != nil || len(composed) == 0 {
		return run
	}
	return composed[0]
}

// normalizeText: 한글은 보존하고 나머지 구간만 homoglyph 정규화합니다.
func normalizeText(text string) string {
	if isASCIIOnly(text) {
		return stripFormatChars(text)
	}
	nfc := norm.NFC.String(text)
	skeleton := rewriteRuns(nfc, func(r rune) bool { return !isKorean(r) }, func(run string) string {
		return norm.NFKC.String(confusables.Skeleton(run))
	})
	return stripFormatChars(skeleton)
}

// rewriteRuns: match 를 만족하는 최대 구간마다 rewrite 결과를 쓰고 나머지 문자는 그대로 복사합니다.
func rewriteRuns(text string, match func(rune) bool, rewrite func(string) string) string {
	var out strings.Builder
	out.Grow(len(text))

	runStart := -1
	for i, r := range text {
		if match(r) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			out.WriteString(rewrite(text[runStart:i]))
			runStart = -1
		}
		out.WriteRune(r)
	}
	if runStart >= 0 {
		out.WriteString(rewrite(text[runStart:]))
	}
	return out.String()
}

func isASCIIOnly(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isFormatOrControl(r rune) bool {
	return unicode.In(r, unicode.Cf, unicode.Cc)
}

// stripFormatChars: 제로폭/제어 문자를 제거합니다. 줄바꿈과 탭은 단어가 붙지 않도록 공백으로 바꿉니다.
func stripFormatChars(text string) string {
	if !strings.ContainsFunc(text, isFormatOrControl) {
		return text
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case isFormatOrControl(r):
			return -1
		default:
			return r
		}
	}, text)
}
