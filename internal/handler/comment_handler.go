package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meetboard/meetboard-api/internal/domain"
)

type CommentService interface {
	Create(ctx context.Context, articleID, authorUsername, content string, parentID *string) (*domain.Comment, error)
	ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error)
}

type CommentHandler struct {
	service CommentService
}

func NewCommentHandler(service CommentService) (*CommentHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("comment service is required")
	}
	return &CommentHandler{service: service}, nil
}

func RegisterCommentRoutes(router fiber.Router, auth fiber.Handler, service CommentService) error {
	h, err := NewCommentHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/articles/:id/comments", auth, h.CreateComment)
	v1.Get("/articles/:id/comments", h.ListComments)

	return nil
}

type createCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId,omitempty"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	ParentID  *string   `json:"parentId,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	username := authenticatedUsername(c)
	if username == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.service.Create(c.Context(), c.Params("id"), username, req.Content, req.ParentID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toCommentResponse(comment))
}

func (h *CommentHandler) ListComments(c *fiber.Ctx) error {
	comments, err := h.service.ListByArticle(c.Context(), c.Params("id"))
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]commentResponse, 0, len(comments))
	for i := range comments {
		data = append(data, toCommentResponse(&comments[i]))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": data,
	})
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
