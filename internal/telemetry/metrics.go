// Package telemetry holds the site's metrics, tracing and logging setup.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "monarkh"

// Metrics are the collectors of one server. Every method is safe on a nil
// receiver so packages can run without metrics in tests.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	liveSessions    prometheus.Gauge
	liveMessages    *prometheus.CounterVec
	framesSent      prometheus.Counter
	wsErrors        *prometheus.CounterVec
	signups         *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry, together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		liveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions",
			Help:      "Open live websocket sessions",
		}),

		liveMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_messages_total",
			Help:      "Messages received from live sessions by type",
		}, []string{"type"}),

		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_frames_sent_total",
			Help:      "State frames written to live sessions",
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_errors_total",
			Help:      "WebSocket errors by type",
		}, []string{"type"}),

		signups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "newsletter_signups_total",
			Help:      "Newsletter signups by source and result",
		}, []string{"source", "result"}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.liveSessions.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.liveSessions.Dec()
	}
}

func (m *Metrics) MessageReceived(kind string) {
	if m != nil {
		m.liveMessages.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) FrameSent() {
	if m != nil {
		m.framesSent.Inc()
	}
}

func (m *Metrics) WebSocketError(kind string) {
	if m != nil {
		m.wsErrors.WithLabelValues(kind).Inc()
	}
}

// Signup records a newsletter signup attempt. result is "new",
// "duplicate", "invalid" or "error".
func (m *Metrics) Signup(source, result string) {
	if m != nil {
		m.signups.WithLabelValues(source, result).Inc()
	}
}
