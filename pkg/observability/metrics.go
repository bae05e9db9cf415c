package observability

import (
	"context"
	"errors"

	"github.com/aretw0/nuex/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of a store.
type Metrics struct {
	Mutations      *prometheus.CounterVec
	Actions        *prometheus.CounterVec
	ActionDuration *prometheus.HistogramVec
	Triggers       *prometheus.CounterVec
	Violations     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nuex_mutations_total",
				Help: "Total number of committed mutations",
			},
			[]string{"mutation"},
		),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nuex_actions_total",
				Help: "Total number of finished actions",
			},
			[]string{"action", "outcome"},
		),
		ActionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "nuex_action_duration_seconds",
				Help: "Duration of action executions",
			},
			[]string{"action"},
		),
		Triggers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nuex_writes_total",
				Help: "Total number of guarded state writes",
			},
			[]string{"path", "kind"},
		),
		Violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nuex_unguarded_writes_total",
				Help: "Writes performed outside of any mutation",
			},
			[]string{"severity"},
		),
	}

	for _, c := range []prometheus.Collector{m.Mutations, m.Actions, m.ActionDuration, m.Triggers, m.Violations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns the lifecycle hooks feeding m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMutation: func(_ context.Context, rec *domain.MutationRecord) {
			m.Mutations.WithLabelValues(rec.Qualified()).Inc()
		},
		OnActionFinish: func(_ context.Context, rec *domain.ActionRecord) {
			outcome := "ok"
			if rec.Err != "" {
				outcome = "error"
			}
			m.Actions.WithLabelValues(rec.Qualified(), outcome).Inc()
			m.ActionDuration.WithLabelValues(rec.Qualified()).Observe(rec.Duration.Seconds())
		},
		OnTrigger: func(_ context.Context, ev *domain.TriggerEvent) {
			m.Triggers.WithLabelValues(ev.Path, ev.Kind).Inc()
		},
		OnViolation: func(_ context.Context, err error) {
			severity := "warning"
			if errors.Is(err, domain.ErrStrictMode) {
				severity = "error"
			}
			m.Violations.WithLabelValues(severity).Inc()
		},
	}
}
