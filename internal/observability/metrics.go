package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics stores Prometheus collectors used by the HTTP layer and the
// notification dispatch path.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal       *prometheus.CounterVec
	httpRequestDuration     *prometheus.HistogramVec
	subscriptionsTotal      *prometheus.CounterVec
	notificationsPersisted  *prometheus.CounterVec
	notificationPushesTotal *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "meetboard",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "meetboard",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		subscriptionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "meetboard",
				Name:      "sse_subscriptions_total",
				Help:      "Total number of notification stream subscriptions by outcome.",
			},
			[]string{"outcome"},
		),
		notificationsPersisted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "meetboard",
				Name:      "notifications_persisted_total",
				Help:      "Total number of notification records written to the durable store.",
			},
			[]string{"kind"},
		),
		notificationPushesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "meetboard",
				Name:      "notification_pushes_total",
				Help:      "Live push attempts by event kind and outcome (delivered, not_connected, evicted).",
			},
			[]string{"kind", "outcome"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.subscriptionsTotal,
		m.notificationsPersisted,
		m.notificationPushesTotal,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RegisterSSEActiveGauge exposes the registry's live connection count as a
// gauge. fn is polled at scrape time.
func (m *Metrics) RegisterSSEActiveGauge(fn func() float64) {
	if m == nil || m.registry == nil || fn == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "meetboard",
			Name:      "sse_connections_active",
			Help:      "Current number of registered notification stream connections.",
		},
		fn,
	))
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

func (m *Metrics) IncSubscription(outcome string) {
	if m == nil {
		return
	}
	m.subscriptionsTotal.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *Metrics) IncNotificationPersisted(kind string) {
	if m == nil {
		return
	}
	m.notificationsPersisted.WithLabelValues(normalizeLabel(kind)).Inc()
}

func (m *Metrics) IncNotificationPush(kind string, outcome string) {
	if m == nil {
		return
	}
	m.notificationPushesTotal.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}

	status := c.Response().StatusCode()
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}

func normalizeLabel(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}
