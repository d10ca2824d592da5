// Package metrics counts decode outcomes per driver.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snewz/rtl-433/internal/frame"
)

// Metrics holds the analyzer collectors.
type Metrics struct {
	registry *prometheus.Registry
	decodes  *prometheus.CounterVec
	rows     prometheus.Counter
}

// New registers the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rtl433",
			Name:      "decode_total",
			Help:      "Decode attempts by driver and outcome.",
		}, []string{"driver", "outcome"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rtl433",
			Name:      "rows_total",
			Help:      "Bit rows submitted for decoding.",
		}),
	}
	reg.MustRegister(m.decodes, m.rows)
	return m
}

// Row counts one submitted bit row.
func (m *Metrics) Row() {
	m.rows.Inc()
}

// Observe counts one decode attempt by drv.
func (m *Metrics) Observe(drv string, err error) {
	m.decodes.WithLabelValues(drv, frame.Outcome(err)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
