package emoji

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"dedupe keeps first", "😊 😊 👍", []string{"😊", "👍"}},
		{"concatenated run splits", "😊👍🎉", []string{"😊", "👍", "🎉"}},
		{"variation selector attaches", "\u2764\ufe0f", []string{"\u2764\ufe0f"}},
		{"selector then new base", "\u2764\ufe0f🔥😀", []string{"\u2764\ufe0f", "🔥", "😀"}},
		{"zwj sequence verbatim", "👨\u200d💻", []string{"👨\u200d💻"}},
		{"zwj continues inside run", "😀👨\u200d💻🎉", []string{"😀", "👨\u200d💻", "🎉"}},
		{"leading modifier dropped", "\ufe0f😀🎉☔", []string{"😀", "🎉", "☔"}},
		{"text separates tokens", "hello😀world🎉!", []string{"😀", "🎉"}},
		{"quoted output", "\"🌧\ufe0f ☔ 🌦\ufe0f\"", []string{"🌧\ufe0f", "☔", "🌦\ufe0f"}},
		{"caps at five", "😀 😁 😂 😃 😄 😅", []string{"😀", "😁", "😂", "😃", "😄"}},
		{"flag pair verbatim", "🇰🇷", []string{"🇰🇷"}},
		{"no emoji falls back", "Sure! Here you go.", []string{"😊", "👍"}},
		{"empty falls back", "", []string{"😊", "👍"}},
		{"modifier only falls back", "\ufe0f \u200d", []string{"😊", "👍"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Extract(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Extract(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestExtractOrDefaultOnFailure(t *testing.T) {
	got := ExtractOrDefault("😀 🎉", errors.New("backend down"))
	if !reflect.DeepEqual(got, []string{"😊", "👍"}) {
		t.Fatalf("expected default list, got %q", got)
	}
	got = ExtractOrDefault("😀 🎉", nil)
	if !reflect.DeepEqual(got, []string{"😀", "🎉"}) {
		t.Fatalf("unexpected list: %q", got)
	}
}

func TestDefaultEmojisIsFresh(t *testing.T) {
	first := DefaultEmojis()
	first[0] = "x"
	if DefaultEmojis()[0] != "😊" {
		t.Fatalf("default list must not be shared")
	}
}

func TestExtractProperties(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"😊",
		"😊👍🎉🍕❤\ufe0f😋🌧\ufe0f",
		"\u200d\u200d😀\u200d",
		"\ufe0f\ufe0e",
		"abc \xff\xfe 😀",
		"👨\u200d👩\u200d👧\u200d👦 👍\U0001F3FD 🇰🇷🇯🇵",
		"I'm so happy today! 😊 😄 🎉",
		"☀\ufe0f🌈⛅\ufe0f⚡\ufe0f❄\ufe0f☃\ufe0f",
		strings.Repeat("🎉", 50),
	}

	for _, input := range inputs {
		first := Extract(input)
		if len(first) < 1 || len(first) > MaxEmojis {
			t.Fatalf("Extract(%q) returned %d tokens", input, len(first))
		}

		seen := make(map[string]bool)
		for _, token := range first {
			if token == "" {
				t.Fatalf("Extract(%q) returned empty token", input)
			}
			if modifierOnly(token) {
				t.Fatalf("Extract(%q) returned modifier-only token %q", input, token)
			}
			if seen[token] {
				t.Fatalf("Extract(%q) returned duplicate %q", input, token)
			}
			seen[token] = true
		}

		second := Extract(input)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("Extract(%q) not deterministic: %q vs %q", input, first, second)
		}
	}
}

func TestSplitTokensNeverEmitsModifierOnly(t *testing.T) {
	tokens := splitTokens("\u200d\ufe0fab\u200c😀\ufe0f\u200d\u200dc🎉")
	want := []string{"😀\ufe0f\u200d\u200d", "🎉"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("unexpected tokens: %q", tokens)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		r    rune
		want codepointClass
	}{
		{0x1F600, classBase},
		{0x1F64F, classBase},
		{0x1F300, classBase},
		{0x1F680, classBase},
		{0x1F1E6, classBase},
		{0x2600, classBase},
		{0x27BF, classBase},
		{0xFE0F, classModifier},
		{0xFE00, classModifier},
		{0x200D, classModifier},
		{0x200C, classModifier},
		{'a', classOther},
		{0x1F3FD, classBase},
		{0x1F923, classOther},
	}
	for _, tc := range tests {
		if got := classify(tc.r); got != tc.want {
			t.Errorf("classify(%U) = %v, want %v", tc.r, got, tc.want)
		}
	}
}

func modifierOnly(token string) bool {
	for _, r := range token {
		if classify(r) != classModifier {
			return false
		}
	}
	return true
}
