package handler

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/meetboard/meetboard-api/internal/domain"
	"github.com/meetboard/meetboard-api/internal/ratelimit"
	"github.com/meetboard/meetboard-api/internal/sse"
)

const subscribeScope = "subscribe"

type NotificationService interface {
	Subscribe(username string) (*sse.Connection, error)
	GetNotifications(ctx context.Context, username string) ([]domain.Notification, error)
}

type NotificationHandler struct {
	service NotificationService
	limiter ratelimit.RateLimiter
	logger  *zap.Logger
}

func NewNotificationHandler(service NotificationService, limiter ratelimit.RateLimiter, logger *zap.Logger) (*NotificationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("notification service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationHandler{
		service: service,
		limiter: limiter,
		logger:  logger,
	}, nil
}

func RegisterNotificationRoutes(router fiber.Router, auth fiber.Handler, service NotificationService, limiter ratelimit.RateLimiter, logger *zap.Logger) error {
	h, err := NewNotificationHandler(service, limiter, logger)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/notifications/subscribe", auth, h.Subscribe)
	v1.Get("/notifications", auth, h.ListNotifications)

	return nil
}

type notificationItem struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subscribe opens the long-lived SSE stream for the authenticated
// member. The stream carries one event per notification and closes
// after the connection timeout elapses.
func (h *NotificationHandler) Subscribe(c *fiber.Ctx) error {
	username := authenticatedUsername(c)
	if username == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(c.Context(), subscribeScope)
		if err != nil {
			h.logger.Warn("subscribe rate limit check failed", zap.Error(err))
		} else if !allowed {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many subscription attempts")
		}
	}

	conn, err := h.service.Subscribe(username)
	if err != nil {
		return toHTTPError(err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	logger := h.logger
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer conn.Close()

		timer := time.NewTimer(conn.Timeout())
		defer timer.Stop()

		for {
			select {
			case ev := <-conn.Events():
				if err := sse.WriteEvent(w, ev); err != nil {
					logger.Debug("sse write failed, client likely disconnected",
						zap.String("username", conn.RecipientID()),
						zap.Error(err),
					)
					return
				}
			case <-conn.Done():
				return
			case <-timer.C:
				logger.Debug("sse connection timed out",
					zap.String("username", conn.RecipientID()),
				)
				return
			}
		}
	}))

	return nil
}

// ListNotifications returns the member's stored notifications, newest
// first.
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	username := authenticatedUsername(c)
	if username == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	notifications, err := h.service.GetNotifications(c.Context(), username)
	if err != nil {
		return toHTTPError(err)
	}

	items := make([]notificationItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, notificationItem{
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": items,
	})
}
