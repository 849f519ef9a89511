// Package metrics exposes Prometheus instrumentation for report submissions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"termometro/models"
)

// Metrics owns its registry so tests can build as many as they need.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	duration    prometheus.Histogram
	distance    prometheus.Histogram
	mqtt        *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "termometro",
			Name:      "reportes_total",
			Help:      "Report submissions by outcome.",
		}, []string{"resultado"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "termometro",
			Name:      "reporte_duracion_segundos",
			Help:      "Time spent validating and storing a report.",
			Buckets:   prometheus.DefBuckets,
		}),
		distance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "termometro",
			Name:      "distancia_metros",
			Help:      "Distance from the geofence center of each located report.",
			Buckets:   []float64{25, 50, 100, 150, 250, 450, 1000, 5000},
		}),
		mqtt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "termometro",
			Name:      "mqtt_mensajes_total",
			Help:      "MQTT report messages by processing status.",
		}, []string{"estado"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.submissions, m.duration, m.distance, m.mqtt,
	)

	for _, o := range models.Outcomes {
		m.submissions.WithLabelValues(string(o))
	}
	return m
}

// ObserveSubmission records the outcome of one gate run.
func (m *Metrics) ObserveSubmission(outcome models.Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(outcome)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveDistance records how far a located report was from the center.
func (m *Metrics) ObserveDistance(meters float64) {
	if m == nil {
		return
	}
	m.distance.Observe(meters)
}

// ObserveMQTT counts a processed MQTT message.
func (m *Metrics) ObserveMQTT(status string) {
	if m == nil {
		return
	}
	m.mqtt.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
