package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
)

func TestNewLoggerCreatesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LoggingConfig{
		LogDir:     dir,
		Level:      "info",
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
		Compress:   true,
	}
	_, err := New(cfg, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(dir, logFileName)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file, got error: %v", err)
	}
}

func TestNewLoggerRejectsInvalidRotation(t *testing.T) {
	cfg := config.LoggingConfig{LogDir: t.TempDir(), MaxSizeMB: 0, MaxBackups: 1, MaxAgeDays: 1}
	if _, err := New(cfg, false); err == nil {
		t.Fatalf("expected error for invalid rotation config")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range tests {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestOTelHandlerAddsTraceAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewOTelHandler(slog.NewTextHandler(&buf, nil)))

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	logger.InfoContext(ctx, "traced")
	out := buf.String()
	if !strings.Contains(out, "trace_id=0102030405060708090a0b0c0d0e0f10") {
		t.Fatalf("expected trace_id in output: %s", out)
	}
	if !strings.Contains(out, "span_id=0102030405060708") {
		t.Fatalf("expected span_id in output: %s", out)
	}

	buf.Reset()
	logger.InfoContext(context.Background(), "untraced")
	if strings.Contains(buf.String(), "trace_id") {
		t.Fatalf("unexpected trace_id without span: %s", buf.String())
	}
}
