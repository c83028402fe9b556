package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staybook/internal/app/middleware"
	"staybook/internal/domain/shared/apperr"
)

// Metrics holds the Prometheus collectors of the service on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	messagesTotal       *prometheus.CounterVec
	messageDuration     *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := &Metrics{
		registry: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "staybook_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staybook_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "staybook_bus_messages_total",
			Help: "Commands and queries handled, by outcome",
		}, []string{"bus", "key", "outcome"}),
		messageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staybook_bus_message_duration_seconds",
			Help:    "Duration of command and query handling",
			Buckets: prometheus.DefBuckets,
		}, []string{"bus", "key"}),
	}
	reg.MustRegister(m.httpRequestsTotal, m.httpRequestDuration, m.messagesTotal, m.messageDuration)
	return m
}

// ObserveHTTPRequest records an HTTP request metric.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveMessage labels the outcome "ok", the error kind, or "error".
func (m *Metrics) ObserveMessage(bus, key string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperr.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	m.messagesTotal.WithLabelValues(bus, key, outcome).Inc()
	m.messageDuration.WithLabelValues(bus, key).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

var _ middleware.Observer = (*Metrics)(nil)
