package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/mirror/pkg/live"
)

// Metrics holds the server's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	activeSessions  prometheus.Gauge
	sessionsTotal   prometheus.Counter
	rejectedTotal   prometheus.Counter
	eventsTotal     *prometheus.CounterVec
	eventDuration   *prometheus.HistogramVec
	eventsDropped   prometheus.Counter
	handlerFailures *prometheus.CounterVec
	messagesSent    prometheus.Counter
	bytesSent       prometheus.Counter
	uploadsTotal    *prometheus.CounterVec
	uploadBytes     prometheus.Counter
}

// NewMetrics registers the collectors with opts.Registry, or with a new
// registry when it is nil.
func NewMetrics(opts MetricsOptions) *Metrics {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	ns := opts.Namespace

	return &Metrics{
		registry: reg,

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "active_sessions",
			Help:      "Number of connected sessions",
		}),
		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "sessions_total",
			Help:      "Total number of sessions opened",
		}),
		rejectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "sessions_rejected_total",
			Help:      "Connections refused because the session limit was reached",
		}),
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "events_total",
			Help:      "Inbound events processed, by event and status",
		}, []string{"event", "status"}),
		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "event_duration_seconds",
			Help:      "Time from receiving an event to the end of its flush",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event"}),
		eventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "events_dropped_total",
			Help:      "Inbound frames dropped because the event queue was full",
		}),
		handlerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "handler_failures_total",
			Help:      "Failures reported to clients, by kind",
		}, []string{"kind"}),
		messagesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "messages_sent_total",
			Help:      "Outbound messages written to clients",
		}),
		bytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "bytes_sent_total",
			Help:      "Outbound bytes written to clients",
		}),
		uploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "uploads_total",
			Help:      "Upload requests, by status",
		}, []string{"status"}),
		uploadBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "upload_bytes_total",
			Help:      "Bytes received by upload endpoints",
		}),
	}
}

// Registry returns the registry the collectors belong to.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.sessionsTotal.Inc()
	m.activeSessions.Inc()
}

func (m *Metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

func (m *Metrics) sessionRejected() {
	if m == nil {
		return
	}
	m.rejectedTotal.Inc()
}

func (m *Metrics) event(event, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(event, status).Inc()
	m.eventDuration.WithLabelValues(event).Observe(d.Seconds())
}

func (m *Metrics) eventDropped() {
	if m == nil {
		return
	}
	m.eventsDropped.Inc()
}

func (m *Metrics) failure(err error) {
	if m == nil {
		return
	}
	m.handlerFailures.WithLabelValues(failureKind(err)).Inc()
}

func (m *Metrics) sent(bytes int) {
	if m == nil {
		return
	}
	m.messagesSent.Inc()
	m.bytesSent.Add(float64(bytes))
}

func (m *Metrics) uploaded(bytes int64) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues("ok").Inc()
	m.uploadBytes.Add(float64(bytes))
}

func (m *Metrics) uploadFailed() {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues("error").Inc()
}

// failureKind classifies a reported failure for the kind label.
func failureKind(err error) string {
	var perr *live.PanicError
	switch {
	case errors.Is(err, live.ErrBadRequest):
		return "bad_request"
	case errors.As(err, &perr):
		return "panic"
	default:
		return "error"
	}
}
