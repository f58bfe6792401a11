// Package metrics exposes the cleaner's Prometheus metrics.
//
// All methods are safe on a nil *Metrics so instrumented packages can run
// without metrics wired.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/teslashibe/go-cleaner/pkg/telemetry"
)

// Metrics holds the cleaner's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	controlRequests *prometheus.CounterVec
	controlErrors   *prometheus.CounterVec
	events          *prometheus.CounterVec
	blocked         *prometheus.CounterVec
	charge          prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		controlRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cleaner_control_requests_total",
			Help: "Total control socket requests by message type.",
		}, []string{"type"}),
		controlErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cleaner_control_errors_total",
			Help: "Total control socket requests rejected, by error code.",
		}, []string{"code"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cleaner_events_total",
			Help: "Total robot operations by kind.",
		}, []string{"kind"}),
		blocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cleaner_blocked_total",
			Help: "Total forward steps refused, by outcome.",
		}, []string{"outcome"}),
		charge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cleaner_battery_charge_percent",
			Help: "Battery charge from the last power check.",
		}),
	}

	m.registry.MustRegister(
		m.controlRequests,
		m.controlErrors,
		m.events,
		m.blocked,
		m.charge,
	)
	return m
}

// Gauge registers a gauge whose value is read from fn at scrape time.
func (m *Metrics) Gauge(name, help string, fn func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, func() float64 { return float64(fn()) }))
}

// ControlRequest counts one control socket request.
func (m *Metrics) ControlRequest(msgType string) {
	if m == nil {
		return
	}
	m.controlRequests.WithLabelValues(msgType).Inc()
}

// ControlError counts one rejected control socket request.
func (m *Metrics) ControlError(code string) {
	if m == nil {
		return
	}
	m.controlErrors.WithLabelValues(code).Inc()
}

// ObserveEvent records a robot operation. It has the shape of a service
// subscriber.
func (m *Metrics) ObserveEvent(ev telemetry.Event) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(string(ev.Kind)).Inc()
	if ev.Outcome != "" && ev.Outcome != "moved" {
		m.blocked.WithLabelValues(ev.Outcome).Inc()
	}
	if ev.Power != nil {
		m.charge.Set(float64(ev.Power.Charge))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
