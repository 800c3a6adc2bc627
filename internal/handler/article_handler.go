package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meetboard/meetboard-api/internal/domain"
	"github.com/meetboard/meetboard-api/internal/repository"
	"github.com/meetboard/meetboard-api/internal/service"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

type ArticleService interface {
	Create(ctx context.Context, authorUsername string, input service.CreateArticleInput) (*domain.GatherArticle, error)
	Get(ctx context.Context, id string) (*domain.GatherArticle, error)
	List(ctx context.Context, params repository.ArticleListParams) ([]domain.GatherArticle, int64, error)
	UpdateStatus(ctx context.Context, id, requesterUsername string, next domain.ArticleStatus) (*domain.GatherArticle, error)
}

type ArticleHandler struct {
	service ArticleService
}

func NewArticleHandler(service ArticleService) (*ArticleHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("article service is required")
	}
	return &ArticleHandler{service: service}, nil
}

func RegisterArticleRoutes(router fiber.Router, auth fiber.Handler, service ArticleService) error {
	h, err := NewArticleHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/articles", auth, h.CreateArticle)
	v1.Get("/articles", h.ListArticles)
	v1.Get("/articles/:id", h.GetArticle)
	v1.Patch("/articles/:id/status", auth, h.UpdateArticleStatus)

	return nil
}

type createArticleRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	MeetingPlace    string    `json:"meetingPlace"`
	MaxParticipants int       `json:"maxParticipants"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
}

type updateArticleStatusRequest struct {
	Status string `json:"status"`
}

type articleResponse struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description,omitempty"`
	MeetingPlace        string    `json:"meetingPlace,omitempty"`
	MaxParticipants     int       `json:"maxParticipants"`
	CurrentParticipants int       `json:"currentParticipants"`
	StartAt             time.Time `json:"startAt"`
	EndAt               time.Time `json:"endAt"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"createdAt"`
}

type listArticlesResponse struct {
	Data []articleResponse `json:"data"`
	Meta listMeta          `json:"meta"`
}

type listMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

func (h *ArticleHandler) CreateArticle(c *fiber.Ctx) error {
	username := authenticatedUsername(c)
	if username == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var req createArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	article, err := h.service.Create(c.Context(), username, service.CreateArticleInput{
		Title:           req.Title,
		Description:     req.Description,
		MeetingPlace:    req.MeetingPlace,
		MaxParticipants: req.MaxParticipants,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toArticleResponse(article))
}

func (h *ArticleHandler) GetArticle(c *fiber.Ctx) error {
	article, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toArticleResponse(article))
}

func (h *ArticleHandler) ListArticles(c *fiber.Ctx) error {
	params := repository.ArticleListParams{
		Page:     c.QueryInt("page", defaultPage),
		PageSize: c.QueryInt("pageSize", defaultPageSize),
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseArticleStatusFromString(raw)
		if err != nil {
			return toHTTPError(err)
		}
		params.Status = &status
	}

	articles, total, err := h.service.List(c.Context(), params)
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]articleResponse, 0, len(articles))
	for i := range articles {
		data = append(data, toArticleResponse(&articles[i]))
	}

	return c.Status(fiber.StatusOK).JSON(listArticlesResponse{
		Data: data,
		Meta: listMeta{
			Page:     params.Page,
			PageSize: params.PageSize,
			Total:    total,
		},
	})
}

func (h *ArticleHandler) UpdateArticleStatus(c *fiber.Ctx) error {
	username := authenticatedUsername(c)
	if username == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	var req updateArticleStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	status, err := domain.ParseArticleStatusFromString(req.Status)
	if err != nil {
		return toHTTPError(err)
	}

	article, err := h.service.UpdateStatus(c.Context(), c.Params("id"), username, status)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toArticleResponse(article))
}

func toArticleResponse(a *domain.GatherArticle) articleResponse {
	return articleResponse{
		ID:                  a.ID,
		Title:               a.Title,
		Description:         a.Description,
		MeetingPlace:        a.MeetingPlace,
		MaxParticipants:     a.MaxParticipants,
		CurrentParticipants: a.CurrentParticipants,
		StartAt:             a.StartAt,
		EndAt:               a.EndAt,
		Status:              a.Status.String(),
		CreatedAt:           a.CreatedAt,
	}
}
