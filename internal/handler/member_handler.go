package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/meetboard/meetboard-api/internal/domain"
	"github.com/meetboard/meetboard-api/internal/ratelimit"
	"github.com/meetboard/meetboard-api/internal/service"
)

const loginScope = "login"

type MemberService interface {
	Register(ctx context.Context, input service.RegisterInput) (*domain.Member, error)
	VerifyUsernameDuplication(ctx context.Context, username string) error
	VerifyNicknameDuplication(ctx context.Context, nickname string) error
	Login(ctx context.Context, username, password string) (string, error)
	GetProfile(ctx context.Context, username string) (*domain.Member, error)
}

type MemberHandler struct {
	service MemberService
	limiter ratelimit.RateLimiter
}

func NewMemberHandler(service MemberService, limiter ratelimit.RateLimiter) (*MemberHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("member service is required")
	}
	return &MemberHandler{service: service, limiter: limiter}, nil
}

func RegisterMemberRoutes(router fiber.Router, auth fiber.Handler, service MemberService, limiter ratelimit.RateLimiter) error {
	h, err := NewMemberHandler(service, limiter)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/members", h.Register)
	v1.Post("/members/username/verify", h.VerifyUsername)
	v1.Post("/members/nickname/verify", h.VerifyNickname)
	v1.Post("/auth/login", h.Login)
	v1.Get("/members/me", auth, h.Profile)

	return nil
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

type memberResponse struct {
	Username  string  `json:"username"`
	Nickname  string  `json:"nickname"`
	Email     string  `json:"email,omitempty"`
	RankScore float64 `json:"rankScore"`
	JoinCount int     `json:"joinCount"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *MemberHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	member, err := h.service.Register(c.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
		Email:    req.Email,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toMemberResponse(member))
}

func (h *MemberHandler) VerifyUsername(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.VerifyUsernameDuplication(c.Context(), req.Username); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"available": true})
}

func (h *MemberHandler) VerifyNickname(c *fiber.Ctx) error {
	var req struct {
		Nickname string `json:"nickname"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.VerifyNicknameDuplication(c.Context(), req.Nickname); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"available": true})
}

func (h *MemberHandler) Login(c *fiber.Ctx) error {
	if h.limiter != nil {
		allowed, err := h.limiter.Allow(c.Context(), loginScope)
		if err == nil && !allowed {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many login attempts")
		}
	}

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	token, err := h.service.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": token})
}

func (h *MemberHandler) Profile(c *fiber.Ctx) error {
	username := authenticatedUsername(c)
	if username == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	member, err := h.service.GetProfile(c.Context(), username)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toMemberResponse(member))
}

func toMemberResponse(m *domain.Member) memberResponse {
	return memberResponse{
		Username:  m.Username,
		Nickname:  m.Nickname,
		Email:     m.Email,
		RankScore: m.RankScore,
		JoinCount: m.JoinCount,
	}
}
