package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/meetboard/meetboard-api/internal/domain"
)

type ParticipationService interface {
	Apply(ctx context.Context, articleID, applicantUsername string) (*domain.ParticipationApplication, error)
	Approve(ctx context.Context, applicationID, requesterUsername string) error
	Reject(ctx context.Context, applicationID, requesterUsername string) error
	Cancel(ctx context.Context, articleID, applicantUsername string) error
	ListApplicants(ctx context.Context, articleID, requesterUsername string) ([]domain.Applicant, error)
}

type ParticipationHandler struct {
	service ParticipationService
}

func NewParticipationHandler(service ParticipationService) (*ParticipationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("participation service is required")
	}
	return &ParticipationHandler{service: service}, nil
}

func RegisterParticipationRoutes(router fiber.Router, auth fiber.Handler, service ParticipationService) error {
	h, err := NewParticipationHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/articles/:id/applications", auth, h.Apply)
	v1.Delete("/articles/:id/applications", auth, h.Cancel)
	v1.Get("/articles/:id/applications", auth, h.ListApplicants)
	v1.Post("/applications/:id/approve", auth, h.Approve)
	v1.Post("/applications/:id/reject", auth, h.Reject)

	return nil
}

type applicationResponse struct {
	ID        string `json:"id"`
	ArticleID string `json:"articleId"`
	Status    string `json:"status"`
}

func (h *ParticipationHandler) Apply(c *fiber.Ctx) error {
	username := authenticatedUsername(c)
	if username == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	application, err := h.service.Apply(c.Context(), c.Params("id"), username)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(applicationResponse{
		ID:        application.ID,
		ArticleID: application.ArticleID,
		Status:    application.Status.String(),
	})
}

func (h *ParticipationHandler) Cancel(c *fiber.Ctx) error {
	username := authenticatedUsername(c)
	if username == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	if err := h.service.Cancel(c.Context(), c.Params("id"), username); err != nil {
		return toHTTPError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ParticipationHandler) ListApplicants(c *fiber.Ctx) error {
	username := authenticatedUsername(c)
	if username == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	applicants, err := h.service.ListApplicants(c.Context(), c.Params("id"), username)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": applicants,
	})
}

func (h *ParticipationHandler) Approve(c *fiber.Ctx) error {
	username := authenticatedUsername(c)
	if username == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	if err := h.service.Approve(c.Context(), c.Params("id"), username); err != nil {
		return toHTTPError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ParticipationHandler) Reject(c *fiber.Ctx) error {
	username := authenticatedUsername(c)
	if username == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	if err := h.service.Reject(c.Context(), c.Params("id"), username); err != nil {
		return toHTTPError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
