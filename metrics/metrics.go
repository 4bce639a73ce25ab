package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	mutations       *prometheus.CounterVec
	persistFailures prometheus.Counter
	commands        *prometheus.CounterVec
	modelFailures   *prometheus.CounterVec
	smsMessages     *prometheus.CounterVec
	backups         *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_state_mutations_total",
			Help: "State mutations by operation.",
		}, []string{"op"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relief_state_persist_failures_total",
			Help: "Snapshot writes that failed and left only the in-memory state.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_assistant_commands_total",
			Help: "Assistant messages by how they were resolved.",
		}, []string{"outcome"}),
		modelFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_assistant_model_failures_total",
			Help: "Failed generation attempts by model.",
		}, []string{"model"}),
		smsMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_sms_messages_total",
			Help: "SMS relay attempts by result.",
		}, []string{"result"}),
		backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_snapshot_backups_total",
			Help: "Scheduled snapshot backups by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.mutations,
		m.persistFailures,
		m.commands,
		m.modelFailures,
		m.smsMessages,
		m.backups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) PersistFailure() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

func (m *Metrics) Command(outcome string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ModelFailure(model string) {
	if m == nil {
		return
	}
	m.modelFailures.WithLabelValues(model).Inc()
}

func (m *Metrics) SMS(result string) {
	if m == nil {
		return
	}
	m.smsMessages.WithLabelValues(result).Inc()
}

func (m *Metrics) Backup(result string) {
	if m == nil {
		return
	}
	m.backups.WithLabelValues(result).Inc()
}
