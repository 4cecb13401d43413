package gpucmd

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts recording and flush activity. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	appended   *prometheus.CounterVec
	merged     *prometheus.CounterVec
	dispatched *prometheus.CounterVec
	skipped    prometheus.Counter
	flushes    prometheus.Counter
}

// NewMetrics creates the counters and registers them with reg. Pass
// prometheus.DefaultRegisterer to expose them on the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		appended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gpucmd",
			Name:      "records_appended_total",
			Help:      "Command records kept in the buffer, by kind.",
		}, []string{"kind"}),
		merged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gpucmd",
			Name:      "records_merged_total",
			Help:      "Requests folded into an existing record or elided as redundant state, by kind.",
		}, []string{"kind"}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gpucmd",
			Name:      "records_dispatched_total",
			Help:      "Command records executed by flushes, by kind.",
		}, []string{"kind"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gpucmd",
			Name:      "draws_skipped_total",
			Help:      "Draw requests dropped because their pipeline must be skipped.",
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gpucmd",
			Name:      "flushes_total",
			Help:      "Flushes of non-empty command buffers.",
		}),
	}
	reg.MustRegister(m.appended, m.merged, m.dispatched, m.skipped, m.flushes)
	return m
}

func (m *Metrics) append(kind CommandType) {
	if m != nil {
		m.appended.WithLabelValues(kind.String()).Inc()
	}
}

func (m *Metrics) merge(kind CommandType) {
	if m != nil {
		m.merged.WithLabelValues(kind.String()).Inc()
	}
}

func (m *Metrics) dispatch(kind CommandType) {
	if m != nil {
		m.dispatched.WithLabelValues(kind.String()).Inc()
	}
}

func (m *Metrics) skip() {
	if m != nil {
		m.skipped.Inc()
	}
}

func (m *Metrics) flush() {
	if m != nil {
		m.flushes.Inc()
	}
}
