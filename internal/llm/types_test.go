package llm

import (
	"context"
	"errors"
	"testing"
)

func TestUnavailableWrapsCause(t *testing.T) {
	err := Unavailable("generate", context.DeadlineExceeded)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected cause to be preserved")
	}
	if err.Error() != "llm backend unavailable: generate: context deadline exceeded" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestUnavailableWithoutCause(t *testing.T) {
	err := Unavailable("decode", nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable")
	}
	if errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("unexpected match")
	}
}
