package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/aretw0/valet/pkg/domain"
)

func TestMetrics_HooksRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()

	ctx := context.Background()
	hooks.OnTurnStart(ctx, &domain.TurnEvent{})
	if got := testutil.ToFloat64(m.turnsInFlight); got != 1 {
		t.Fatalf("expected 1 turn in flight, got %v", got)
	}

	hooks.OnLLMReturn(ctx, &domain.LLMEvent{Duration: 120 * time.Millisecond})
	hooks.OnProviderReturn(ctx, &domain.ProviderEvent{Intent: "set_volume", Duration: 5 * time.Millisecond})
	hooks.OnTurnEnd(ctx, &domain.TurnEvent{Intent: "set_volume", OK: true, Duration: 200 * time.Millisecond})

	if got := testutil.ToFloat64(m.turnsInFlight); got != 0 {
		t.Errorf("expected 0 turns in flight, got %v", got)
	}
	if got := testutil.ToFloat64(m.turnsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("expected 1 ok turn, got %v", got)
	}
	if got := testutil.ToFloat64(m.intentsTotal.WithLabelValues("set_volume")); got != 1 {
		t.Errorf("expected 1 set_volume intent, got %v", got)
	}
	if got := testutil.ToFloat64(m.llmCallsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("expected 1 ok model call, got %v", got)
	}
	if got := testutil.ToFloat64(m.providerTotal.WithLabelValues("set_volume", "ok")); got != 1 {
		t.Errorf("expected 1 ok provider call, got %v", got)
	}
}

func TestMetrics_FailureLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()

	ctx := context.Background()
	hooks.OnTurnEnd(ctx, &domain.TurnEvent{OK: false, Kind: domain.FailureParse})
	hooks.OnLLMReturn(ctx, &domain.LLMEvent{IsError: true})

	if got := testutil.ToFloat64(m.turnsTotal.WithLabelValues("parse_error")); got != 1 {
		t.Errorf("expected 1 parse_error turn, got %v", got)
	}
	if got := testutil.ToFloat64(m.llmCallsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed model call, got %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.Hooks().OnTurnEnd(context.Background(), &domain.TurnEvent{OK: true, Intent: "exit"})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading metrics body: %v", err)
	}
	if !strings.Contains(string(body), "valet_turns_total") {
		t.Error("expected valet_turns_total in metrics output")
	}
	if !strings.Contains(string(body), "valet_turn_duration_seconds") {
		t.Error("expected valet_turn_duration_seconds in metrics output")
	}
}

func TestMerge_CallsAllHooks(t *testing.T) {
	var calls []string
	mk := func(name string) domain.LifecycleHooks {
		return domain.LifecycleHooks{
			OnTurnEnd: func(ctx context.Context, e *domain.TurnEvent) { calls = append(calls, name) },
		}
	}

	merged := Merge(mk("first"), domain.LifecycleHooks{}, mk("second"))
	merged.OnTurnEnd(context.Background(), &domain.TurnEvent{})

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("expected both hook sets to run in order, got %v", calls)
	}

	// Sets with nil callbacks are skipped without panicking.
	merged.OnLLMReturn(context.Background(), &domain.LLMEvent{})
}
