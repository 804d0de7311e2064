package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/valet/pkg/domain"
)

// Metrics holds the Prometheus collectors for the dispatch pipeline.
type Metrics struct {
	registry prometheus.Registerer

	turnsInFlight    prometheus.Gauge
	turnsTotal       *prometheus.CounterVec
	turnDuration     prometheus.Histogram
	intentsTotal     *prometheus.CounterVec
	llmCallsTotal    *prometheus.CounterVec
	llmDuration      prometheus.Histogram
	providerTotal    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the pipeline collectors.
// A nil registerer uses the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		registry: reg,
		turnsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "valet_turns_in_flight",
			Help: "Number of turns currently being dispatched",
		}),
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valet_turns_total",
			Help: "Total number of dispatched turns by result",
		}, []string{"result"}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "valet_turn_duration_seconds",
			Help: "Duration of full dispatch turns",
		}),
		intentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valet_intents_total",
			Help: "Total number of recognized intents by name",
		}, []string{"intent"}),
		llmCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valet_llm_calls_total",
			Help: "Total number of language model calls by status",
		}, []string{"status"}),
		llmDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "valet_llm_duration_seconds",
			Help: "Duration of language model calls",
		}),
		providerTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valet_provider_calls_total",
			Help: "Total number of provider invocations by intent and status",
		}, []string{"intent", "status"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "valet_provider_duration_seconds",
			Help: "Duration of provider invocations",
		}, []string{"intent"}),
	}
	reg.MustRegister(
		m.turnsInFlight,
		m.turnsTotal,
		m.turnDuration,
		m.intentsTotal,
		m.llmCallsTotal,
		m.llmDuration,
		m.providerTotal,
		m.providerDuration,
	)
	return m
}

// Hooks returns lifecycle hooks that record pipeline metrics. Combine with
// other hook sets via Merge.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurnStart: func(ctx context.Context, e *domain.TurnEvent) {
			m.turnsInFlight.Inc()
		},
		OnTurnEnd: func(ctx context.Context, e *domain.TurnEvent) {
			m.turnsInFlight.Dec()
			m.turnsTotal.WithLabelValues(resultLabel(e.OK, e.Kind)).Inc()
			m.turnDuration.Observe(e.Duration.Seconds())
			if e.Intent != "" {
				m.intentsTotal.WithLabelValues(e.Intent).Inc()
			}
		},
		OnLLMReturn: func(ctx context.Context, e *domain.LLMEvent) {
			m.llmCallsTotal.WithLabelValues(statusLabel(e.IsError)).Inc()
			m.llmDuration.Observe(e.Duration.Seconds())
		},
		OnProviderReturn: func(ctx context.Context, e *domain.ProviderEvent) {
			m.providerTotal.WithLabelValues(e.Intent, statusLabel(e.IsError)).Inc()
			m.providerDuration.WithLabelValues(e.Intent).Observe(e.Duration.Seconds())
		},
	}
}

// Handler returns an HTTP handler serving the collected metrics.
func (m *Metrics) Handler() http.Handler {
	if g, ok := m.registry.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

func resultLabel(ok bool, kind domain.FailureKind) string {
	if ok {
		return "ok"
	}
	return string(kind)
}

func statusLabel(isError bool) string {
	if isError {
		return "error"
	}
	return "ok"
}
