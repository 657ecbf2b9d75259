// Package metrics counts replay activity with Prometheus collectors.
//
// A Manager implements replay.Observer, so it can be passed to a
// Reconciler, Rebuild or Patch with replay.WithObserver.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/replay"
)

// Manager owns the replay collectors.
type Manager struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry

	eventsApplied  *prometheus.CounterVec
	reattributions prometheus.Counter
	checkpoints    prometheus.Counter
	failures       *prometheus.CounterVec
}

var _ replay.Observer = (*Manager)(nil)

// NewManager creates a Manager. Without WithRegistry it registers on a
// fresh registry, so managers never collide.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "scorebook",
		subsystem: "replay",
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(m.registry)
	m.eventsApplied = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_applied_total",
		Help:      "Events applied during replay, by event name",
	}, []string{"event"})
	m.reattributions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reattributions_total",
		Help:      "Plate-appearance outcomes credited to a substituted batter or pitcher",
	})
	m.checkpoints = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "checkpoints_total",
		Help:      "Checkpoints taken during replay",
	})
	m.failures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "failures_total",
		Help:      "Fatal replay and patch failures, by error code",
	}, []string{"code"})
	return m
}

// EventApplied implements replay.Observer.
func (m *Manager) EventApplied(name game.Name, reattributed bool) {
	m.eventsApplied.WithLabelValues(string(name)).Inc()
	if reattributed {
		m.reattributions.Inc()
	}
}

// CheckpointCreated implements replay.Observer.
func (m *Manager) CheckpointCreated(string) {
	m.checkpoints.Inc()
}

// ReplayFailed implements replay.Observer.
func (m *Manager) ReplayFailed(code replay.ErrorCode) {
	m.failures.WithLabelValues(string(code)).Inc()
}

// Registry returns the registry the collectors live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (m *Manager) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
