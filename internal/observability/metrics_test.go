package observability

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsDispatchCollectors(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()

	metrics.IncSubscription("registered")
	metrics.IncNotificationPersisted("APPLY_PARTICIPATION")
	metrics.IncNotificationPush("apply_participation", "delivered")
	metrics.IncNotificationPush("apply_participation", "evicted")

	if got := testutil.ToFloat64(metrics.subscriptionsTotal.WithLabelValues("registered")); got != 1 {
		t.Fatalf("sse_subscriptions_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.notificationsPersisted.WithLabelValues("apply_participation")); got != 1 {
		t.Fatalf("notifications_persisted_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.notificationPushesTotal.WithLabelValues("apply_participation", "delivered")); got != 1 {
		t.Fatalf("notification_pushes_total{delivered} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.notificationPushesTotal.WithLabelValues("apply_participation", "evicted")); got != 1 {
		t.Fatalf("notification_pushes_total{evicted} = %v, want 1", got)
	}
}

func TestMetricsSSEActiveGauge(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()

	active := 3.0
	metrics.RegisterSSEActiveGauge(func() float64 { return active })

	names, err := testutil.GatherAndCount(metrics.registry, "meetboard_sse_connections_active")
	if err != nil {
		t.Fatalf("gather error = %v", err)
	}
	if names != 1 {
		t.Fatalf("gauge series = %d, want 1", names)
	}
}

func TestMetricsHTTPMiddlewareRecordsRequest(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	app := fiber.New()
	app.Use(metrics.HTTPMiddleware())
	app.Get("/livez", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/livez", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", "/livez", "200")); got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}
}
