package convert

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the work of a Converter. They are kept in their own registry,
// which the CLI writes to a text file for the node exporter.
type Metrics struct {
	Registry *prometheus.Registry

	Files       *prometheus.CounterVec
	Widgets     prometheus.Counter
	Diagnostics *prometheus.CounterVec
	Duration    prometheus.Histogram
}

// NewMetrics creates and registers the conversion metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adl2pydm_files_total",
			Help: "Files processed, by result.",
		}, []string{"result"}),
		Widgets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adl2pydm_widgets_total",
			Help: "Widgets written to output files.",
		}),
		Diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adl2pydm_diagnostics_total",
			Help: "Diagnostics reported, by severity.",
		}, []string{"severity"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "adl2pydm_conversion_seconds",
			Help:    "Time to convert one file.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	m.Registry.MustRegister(m.Files, m.Widgets, m.Diagnostics, m.Duration)
	return m
}

// WriteTextfile writes the current values in the Prometheus text format.
func (m *Metrics) WriteTextfile(fileName string) error {
	return errors.Wrap(prometheus.WriteToTextfile(fileName, m.Registry), "writing metrics")
}
