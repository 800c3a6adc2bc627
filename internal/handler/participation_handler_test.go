package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/meetboard/meetboard-api/internal/domain"
)

type stubParticipationService struct {
	applyFn   func(ctx context.Context, articleID, applicantUsername string) (*domain.ParticipationApplication, error)
	approveFn func(ctx context.Context, applicationID, requesterUsername string) error
	rejectFn  func(ctx context.Context, applicationID, requesterUsername string) error
	cancelFn  func(ctx context.Context, articleID, applicantUsername string) error
	listFn    func(ctx context.Context, articleID, requesterUsername string) ([]domain.Applicant, error)
}

func (s *stubParticipationService) Apply(ctx context.Context, articleID, applicantUsername string) (*domain.ParticipationApplication, error) {
	if s.applyFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.applyFn(ctx, articleID, applicantUsername)
}

func (s *stubParticipationService) Approve(ctx context.Context, applicationID, requesterUsername string) error {
	if s.approveFn == nil {
		return domain.ErrNotFound
	}
	return s.approveFn(ctx, applicationID, requesterUsername)
}

func (s *stubParticipationService) Reject(ctx context.Context, applicationID, requesterUsername string) error {
	if s.rejectFn == nil {
		return domain.ErrNotFound
	}
	return s.rejectFn(ctx, applicationID, requesterUsername)
}

func (s *stubParticipationService) Cancel(ctx context.Context, articleID, applicantUsername string) error {
	if s.cancelFn == nil {
		return domain.ErrNotFound
	}
	return s.cancelFn(ctx, articleID, applicantUsername)
}

func (s *stubParticipationService) ListApplicants(ctx context.Context, articleID, requesterUsername string) ([]domain.Applicant, error) {
	if s.listFn == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.listFn(ctx, articleID, requesterUsername)
}

func TestApplyEndpoint(t *testing.T) {
	t.Parallel()

	svc := &stubParticipationService{
		applyFn: func(ctx context.Context, articleID, applicantUsername string) (*domain.ParticipationApplication, error) {
			if applicantUsername == "author" {
				return nil, domain.ErrConflict
			}
			return &domain.ParticipationApplication{
				ID:        "app-1",
				ArticleID: articleID,
				Status:    domain.ParticipationPending,
			}, nil
		},
	}

	verifier := &stubTokenVerifier{subjects: map[string]string{
		"bob-token":    "bob",
		"author-token": "author",
	}}
	app := newTestApp(t)
	if err := RegisterParticipationRoutes(app, AuthMiddleware(verifier), svc); err != nil {
		t.Fatalf("RegisterParticipationRoutes() error = %v", err)
	}

	resp, body := performRequest(t, app, http.MethodPost, "/v1/articles/article-1/applications", "", authHeader("bob-token"))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", resp.StatusCode, string(body))
	}

	var parsed applicationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if parsed.Status != domain.ParticipationPending.String() {
		t.Errorf("status = %q, want PENDING", parsed.Status)
	}

	resp, _ = performRequest(t, app, http.MethodPost, "/v1/articles/article-1/applications", "", authHeader("author-token"))
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d, want 409 for self apply", resp.StatusCode)
	}

	resp, _ = performRequest(t, app, http.MethodPost, "/v1/articles/article-1/applications", "", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without token", resp.StatusCode)
	}
}

func TestApproveEndpoint(t *testing.T) {
	t.Parallel()

	svc := &stubParticipationService{
		approveFn: func(ctx context.Context, applicationID, requesterUsername string) error {
			if requesterUsername != "alice" {
				return domain.ErrUnauthorized
			}
			return nil
		},
	}

	verifier := &stubTokenVerifier{subjects: map[string]string{
		"alice-token":   "alice",
		"mallory-token": "mallory",
	}}
	app := newTestApp(t)
	if err := RegisterParticipationRoutes(app, AuthMiddleware(verifier), svc); err != nil {
		t.Fatalf("RegisterParticipationRoutes() error = %v", err)
	}

	resp, _ := performRequest(t, app, http.MethodPost, "/v1/applications/app-1/approve", "", authHeader("alice-token"))
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	resp, _ = performRequest(t, app, http.MethodPost, "/v1/applications/app-1/approve", "", authHeader("mallory-token"))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for non-author", resp.StatusCode)
	}
}
