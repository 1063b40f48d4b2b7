package telemetry

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
)

func TestDisabledProviderIsNoop(t *testing.T) {
	provider, err := NewProvider(context.Background(), config.TelemetryConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.IsEnabled() {
		t.Fatalf("expected disabled provider")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}

func TestNilProviderShutdown(t *testing.T) {
	var provider *Provider
	if provider.IsEnabled() {
		t.Fatalf("nil provider must be disabled")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}

func TestRootSampler(t *testing.T) {
	cases := []struct {
		rate float64
		want string
	}{
		{rate: 1, want: sdktrace.AlwaysSample().Description()},
		{rate: 0, want: sdktrace.NeverSample().Description()},
		{rate: 0.25, want: sdktrace.TraceIDRatioBased(0.25).Description()},
	}
	for _, tc := range cases {
		if got := rootSampler(tc.rate).Description(); got != tc.want {
			t.Fatalf("rate %v: expected %s, got %s", tc.rate, tc.want, got)
		}
	}
}
