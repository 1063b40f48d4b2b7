package prompt

import (
	"reflect"
	"testing"
)

func TestFormatTemplate(t *testing.T) {
	output, err := FormatTemplate("Hello {name} {{test}}", map[string]string{"name": "Alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "Hello Alice {test}" {
		t.Fatalf("unexpected output: %s", output)
	}
}

func TestFormatTemplateKeepsValueBraces(t *testing.T) {
	output, err := FormatTemplate(`Message: "{message}"`, map[string]string{"message": "{not a key}"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != `Message: "{not a key}"` {
		t.Fatalf("unexpected output: %s", output)
	}
}

func TestFormatTemplateMissingKey(t *testing.T) {
	if _, err := FormatTemplate("Hello {name}", map[string]string{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFormatTemplateInvalidSyntax(t *testing.T) {
	if _, err := FormatTemplate("Hello {name", map[string]string{"name": "A"}); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := FormatTemplate("Hello }", nil); err == nil {
		t.Fatalf("expected error for stray brace")
	}
}

func TestPlaceholders(t *testing.T) {
	keys, err := Placeholders("{a} and {{b}} and {c}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"a", "c"}) {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
