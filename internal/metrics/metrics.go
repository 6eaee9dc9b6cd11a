package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the composer's Prometheus metrics on a registry of its own,
// so several instances can coexist in one process.
type Registry struct {
	reg *prometheus.Registry

	// Session metrics
	MutationsTotal *prometheus.CounterVec
	TemplateLoads  *prometheus.CounterVec
	SessionsActive prometheus.Gauge

	// Output metrics
	CompositionsTotal prometheus.Counter
	ExportsTotal      *prometheus.CounterVec

	DictionaryReloads *prometheus.CounterVec
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,

		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notam_composer_mutations_total",
				Help: "Record mutations applied to sessions, by operation",
			},
			[]string{"operation"},
		),
		TemplateLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notam_composer_template_loads_total",
				Help: "Template load requests, by result (hit or miss)",
			},
			[]string{"result"},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "notam_composer_sessions_active",
				Help: "Sessions currently held by the registry",
			},
		),

		CompositionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "notam_composer_compositions_total",
				Help: "Final NOTAM texts composed",
			},
		),
		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notam_composer_exports_total",
				Help: "Exports written, by format",
			},
			[]string{"format"},
		),

		DictionaryReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notam_composer_dictionary_reloads_total",
				Help: "Scheduled dictionary reloads, by result",
			},
			[]string{"result"},
		),
	}
}

// RecordTemplateLoad counts a template load as a hit or a miss.
func (r *Registry) RecordTemplateLoad(hit bool) {
	if hit {
		r.TemplateLoads.WithLabelValues("hit").Inc()
		return
	}
	r.TemplateLoads.WithLabelValues("miss").Inc()
}

func (r *Registry) RecordReload(err error) {
	if err != nil {
		r.DictionaryReloads.WithLabelValues("error").Inc()
		return
	}
	r.DictionaryReloads.WithLabelValues("ok").Inc()
}

// WriteTextfile writes every metric in the text exposition format, for the
// node exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
