package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
)

func TestStoreRecordsMetrics(t *testing.T) {
	store := NewStore()
	store.RecordSuccess(120*time.Millisecond, llm.Usage{InputTokens: 2, OutputTokens: 3})
	store.RecordError(50 * time.Millisecond)

	usage := store.UsageTotals()
	if usage.InputTokens != 2 || usage.OutputTokens != 3 || usage.TotalTokens != 5 {
		t.Fatalf("unexpected usage totals: %+v", usage)
	}

	snapshot := store.Snapshot()
	if snapshot["total_calls"] != 2 {
		t.Fatalf("expected total_calls 2, got %v", snapshot["total_calls"])
	}
	if snapshot["total_errors"] != 1 {
		t.Fatalf("expected total_errors 1, got %v", snapshot["total_errors"])
	}
	if snapshot["avg_duration_ms"] != 85 {
		t.Fatalf("expected avg 85ms, got %v", snapshot["avg_duration_ms"])
	}
	if snapshot["error_rate"] != 0.5 {
		t.Fatalf("expected error_rate 0.5, got %v", snapshot["error_rate"])
	}

	empty := NewStore().Snapshot()
	if empty["avg_duration_ms"] != 0 || empty["error_rate"] != 0 {
		t.Fatalf("empty snapshot should report zeros: %+v", empty)
	}
}

func TestCollectorsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollectors(reg)

	c.ObserveEmojiRequest(OutcomeOK)
	c.ObserveEmojiRequest(OutcomeOK)
	c.ObserveVerdict("unsafe")
	c.ObserveLLMCall("emoji", false)
	c.ObserveLLMCall("", true)

	if got := counterValue(t, reg, "emoji_requests_total", "ok"); got != 2 {
		t.Fatalf("expected 2 ok requests, got %v", got)
	}
	if got := counterValue(t, reg, "moderation_verdicts_total", "unsafe"); got != 1 {
		t.Fatalf("expected 1 unsafe verdict, got %v", got)
	}
	if got := counterValue(t, reg, "llm_calls_total", "emoji", "error"); got != 1 {
		t.Fatalf("expected 1 emoji error, got %v", got)
	}
	if got := counterValue(t, reg, "llm_calls_total", "unknown", "ok"); got != 1 {
		t.Fatalf("expected unknown purpose label, got %v", got)
	}
}

func TestNilCollectorsIgnored(t *testing.T) {
	var c *Collectors
	c.ObserveEmojiRequest(OutcomeOK)
	c.ObserveVerdict("safe")
	c.ObserveLLMCall("emoji", true)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labelValues ...string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := metric.GetLabel()
			if len(labels) != len(labelValues) {
				continue
			}
			matched := true
			for i, label := range labels {
				if label.GetValue() != labelValues[i] {
					matched = false
					break
				}
			}
			if matched {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}
