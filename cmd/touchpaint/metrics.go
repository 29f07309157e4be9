package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the daemon's Prometheus collectors. Each instance owns its
// registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	touchSamples    *prometheus.CounterVec
	dotsPainted     prometheus.Counter
	selections      *prometheus.CounterVec
	pinOverlaps     prometheus.Counter
	acquireTimeouts prometheus.Counter
	activeThickness prometheus.Gauge
	wsClients       prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		touchSamples: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "touchpaint",
			Name:      "touch_samples_total",
			Help:      "Raw touch samples read from the sensor, by pressure filter result.",
		}, []string{"result"}),
		dotsPainted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "touchpaint",
			Name:      "dots_painted_total",
			Help:      "Brush dots painted onto the canvas.",
		}),
		selections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "touchpaint",
			Name:      "selections_total",
			Help:      "Widget selections, by widget.",
		}, []string{"widget"}),
		pinOverlaps: f.NewCounter(prometheus.CounterOpts{
			Namespace: "touchpaint",
			Name:      "pin_overlaps_total",
			Help:      "Pin acquisitions that found the shared pins already held.",
		}),
		acquireTimeouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: "touchpaint",
			Name:      "acquire_timeouts_total",
			Help:      "Bounded touch acquisitions that ended without a touch.",
		}),
		activeThickness: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "touchpaint",
			Name:      "active_thickness",
			Help:      "Radius of the currently selected brush.",
		}),
		wsClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "touchpaint",
			Name:      "ws_clients",
			Help:      "Connected state feed clients.",
		}),
	}
}

// The helpers below tolerate a nil receiver so components can run unmetered.

func (m *Metrics) sampleAccepted() {
	if m != nil {
		m.touchSamples.WithLabelValues("accepted").Inc()
	}
}

func (m *Metrics) sampleRejected() {
	if m != nil {
		m.touchSamples.WithLabelValues("rejected").Inc()
	}
}

func (m *Metrics) dotPainted() {
	if m != nil {
		m.dotsPainted.Inc()
	}
}

func (m *Metrics) selected(widget string) {
	if m != nil {
		m.selections.WithLabelValues(widget).Inc()
	}
}

func (m *Metrics) pinOverlap() {
	if m != nil {
		m.pinOverlaps.Inc()
	}
}

func (m *Metrics) acquireTimeout() {
	if m != nil {
		m.acquireTimeouts.Inc()
	}
}

func (m *Metrics) setThickness(t int) {
	if m != nil {
		m.activeThickness.Set(float64(t))
	}
}

func (m *Metrics) setWSClients(n int) {
	if m != nil {
		m.wsClients.Set(float64(n))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
