package guard

import (
	"encoding/base64"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minEncodedRunLength = 20

var urlSafeToStd = strings.NewReplacer("-", "+", "_", "/")

func isBase64Rune(r rune) bool {
	return (r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') ||
		r == '+' || r == '/' || r == '-' || r == '_' || r == '='
}

// containsSuspiciousBase64: 입력 안의 Base64 구간 중 디코딩 결과가 읽을 수 있는 텍스트인 것이 있는지 확인합니다.
// 표준/URL-safe 알파벳과 패딩 생략을 모두 허용합니다.
func containsSuspiciousBase64(input string) bool {
	runs := strings.FieldsFunc(input, func(r rune) bool { return !isBase64Rune(r) })
	for _, run := range runs {
		if len(run) < minEncodedRunLength {
			continue
		}
		decoded, ok := decodeBase64Loose(run)
		if ok && isReadableText(decoded) {
			return true
		}
	}
	return false
}

func decodeBase64Loose(run string) ([]byte, bool) {
	raw := urlSafeToStd.Replace(strings.TrimRight(run, "="))
	decoded, err := base64.RawStdEncoding.DecodeString(raw)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

// isReadableText: 유효한 UTF-8 이고 90% 넘게 출력 가능한 문자면 true 입니다.
func isReadableText(data []byte) bool {
	if len(data) == 0 || !utf8.Valid(data) {
		return false
	}
	total, printable := 0, 0
	for _, r := range string(data) {
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	return printable*10 > total*9
}
