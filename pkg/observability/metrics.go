package observability

import (
	"errors"
	"net/http"

	"github.com/aretw0/transducer/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Interpretation results used as the "result" label.
const (
	ResultOK       = "ok"
	ResultBadInput = "bad_input"
	ResultBadTable = "bad_table"
	ResultError    = "error"
)

// Metrics holds the collectors for machine activity.
type Metrics struct {
	registry *prometheus.Registry

	TransitionsAdded    *prometheus.CounterVec
	TransitionsRejected *prometheus.CounterVec
	Interpretations     *prometheus.CounterVec
	Symbols             *prometheus.CounterVec
	Duration            *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a private registry that also carries
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TransitionsAdded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fst_transitions_added_total",
				Help: "Transitions accepted into a table.",
			},
			[]string{"machine"},
		),
		TransitionsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fst_transitions_rejected_total",
				Help: "Transitions rejected as non-deterministic.",
			},
			[]string{"machine"},
		),
		Interpretations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fst_interpretations_total",
				Help: "Interpret calls by result.",
			},
			[]string{"machine", "result"},
		),
		Symbols: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fst_symbols_total",
				Help: "Input symbols translated.",
			},
			[]string{"machine"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fst_interpret_duration_seconds",
				Help:    "Duration of Interpret calls.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"machine"},
		),
	}

	m.registry.MustRegister(
		m.TransitionsAdded,
		m.TransitionsRejected,
		m.Interpretations,
		m.Symbols,
		m.Duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransitionAdded: func(e *domain.TransitionEvent) {
			m.TransitionsAdded.WithLabelValues(e.Machine).Inc()
		},
		OnTransitionRejected: func(e *domain.TransitionEvent) {
			m.TransitionsRejected.WithLabelValues(e.Machine).Inc()
		},
		OnInterpretEnd: func(e *domain.InterpretEvent) {
			m.Interpretations.WithLabelValues(e.Machine, Result(e.Err)).Inc()
			m.Duration.WithLabelValues(e.Machine).Observe(e.Took.Seconds())
		},
		OnStep: func(e *domain.StepEvent) {
			m.Symbols.WithLabelValues(e.Machine).Inc()
		},
	}
}

// Result classifies an interpretation error for the "result" label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrBadInput):
		return ResultBadInput
	case errors.Is(err, domain.ErrBadTable):
		return ResultBadTable
	default:
		return ResultError
	}
}
