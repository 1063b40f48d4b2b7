package backend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/gemini"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/metrics"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/ollama"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/usage"
)

type fakeBackend struct {
	result llm.Result
	err    error
	calls  int
}

func (f *fakeBackend) Generate(context.Context, llm.Request) (llm.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeStore struct {
	usage.Store
	recorded int
}

func (f *fakeStore) RecordUsage(context.Context, int64, int64, int64, time.Time) error {
	f.recorded++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNewSelectsProvider(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{
		Provider:       config.ProviderOllama,
		BaseURL:        "http://llm-server:11434",
		DefaultModel:   "gemma3:1b-it-qat",
		TimeoutSeconds: 30,
	}}
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.(*ollama.Client); !ok {
		t.Fatalf("expected ollama client, got %T", b)
	}

	cfg.LLM.Provider = config.ProviderGemini
	cfg.LLM.APIKeys = []string{"key"}
	b, err = New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.(*gemini.Client); !ok {
		t.Fatalf("expected gemini client, got %T", b)
	}

	cfg.LLM.Provider = "unknown"
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestInstrumentedRecordsSuccess(t *testing.T) {
	inner := &fakeBackend{result: llm.Result{Text: "😀", Usage: llm.Usage{InputTokens: 3, OutputTokens: 2}}}
	store := metrics.NewStore()
	usageStore := &fakeStore{}
	b := NewInstrumented(inner, store, nil, usage.NewRecorder(usageStore, nil), testLogger())

	result, err := b.Generate(context.Background(), llm.Request{Prompt: "p", Purpose: "emoji"})
	if err != nil || result.Text != "😀" {
		t.Fatalf("unexpected result: %+v err=%v", result, err)
	}
	snapshot := store.Snapshot()
	if snapshot["total_calls"] != 1 || snapshot["total_errors"] != 0 || snapshot["total_tokens"] != 5 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
	if usageStore.recorded != 1 {
		t.Fatalf("expected usage recorded once, got %d", usageStore.recorded)
	}
}

func TestInstrumentedRecordsFailure(t *testing.T) {
	inner := &fakeBackend{err: llm.Unavailable("generate", errors.New("boom"))}
	b := NewInstrumented(inner, nil, nil, nil, testLogger())

	_, err := b.Generate(context.Background(), llm.Request{Prompt: "p"})
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if b.Metrics().Snapshot()["total_errors"] != 1 {
		t.Fatalf("expected error recorded")
	}
}

func TestInstrumentedPingWithoutSupport(t *testing.T) {
	b := NewInstrumented(&fakeBackend{}, nil, nil, nil, nil)
	if err := b.Ping(context.Background()); err != nil {
		t.Fatalf("expected nil ping for backend without ping support, got %v", err)
	}
	models, err := b.ListModels(context.Background())
	if err != nil || models != nil {
		t.Fatalf("expected no models, got %v err=%v", models, err)
	}
}
