package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/meetboard/meetboard-api/internal/domain"
)

type RankingService interface {
	Top(ctx context.Context) ([]domain.RankEntry, error)
}

type RankingHandler struct {
	service RankingService
}

func NewRankingHandler(service RankingService) (*RankingHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("ranking service is required")
	}
	return &RankingHandler{service: service}, nil
}

func RegisterRankingRoutes(router fiber.Router, service RankingService) error {
	h, err := NewRankingHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/rankings/top", h.Top)

	return nil
}

func (h *RankingHandler) Top(c *fiber.Ctx) error {
	entries, err := h.service.Top(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": entries,
	})
}
