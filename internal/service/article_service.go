package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetboard/meetboard-api/internal/domain"
	"github.com/meetboard/meetboard-api/internal/repository"
)

// ReviewNotifier is called when a gathering completes.
type ReviewNotifier interface {
	NotifyReviewRequest(ctx context.Context, articleID string) error
}

type ArticleService struct {
	articles repository.ArticleRepository
	members  repository.MemberRepository
	notifier ReviewNotifier
	logger   *zap.Logger
}

type CreateArticleInput struct {
	Title           string
	Description     string
	MeetingPlace    string
	MaxParticipants int
	StartAt         time.Time
	EndAt           time.Time
}

func NewArticleService(
	articles repository.ArticleRepository,
	members repository.MemberRepository,
	notifier ReviewNotifier,
	logger *zap.Logger,
) (*ArticleService, error) {
	if notifier == nil {
		return nil, fmt.Errorf("review notifier is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ArticleService{
		articles: articles,
		members:  members,
		notifier: notifier,
		logger:   logger,
	}, nil
}

func (s *ArticleService) Create(ctx context.Context, authorUsername string, input CreateArticleInput) (*domain.GatherArticle, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	author, err := s.members.GetByUsername(ctx, authorUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	now := time.Now().UTC()
	article := &domain.GatherArticle{
		ID:              uuid.NewString(),
		AuthorID:        author.ID,
		Title:           input.Title,
		Description:     input.Description,
		MeetingPlace:    input.MeetingPlace,
		MaxParticipants: input.MaxParticipants,
		StartAt:         input.StartAt,
		EndAt:           input.EndAt,
		Status:          domain.ArticleStatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := article.Validate(); err != nil {
		return nil, err
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	return article, nil
}

func (s *ArticleService) Get(ctx context.Context, id string) (*domain.GatherArticle, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	return s.articles.GetByID(ctx, id)
}

func (s *ArticleService) List(ctx context.Context, params repository.ArticleListParams) ([]domain.GatherArticle, int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	return s.articles.List(ctx, params)
}

// UpdateStatus moves an article through its lifecycle. Only the author
// may change the status. Completing an article fans out review
// requests to its participants.
func (s *ArticleService) UpdateStatus(ctx context.Context, id, requesterUsername string, next domain.ArticleStatus) (*domain.GatherArticle, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown article status %q", domain.ErrValidation, next)
	}

	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	requester, err := s.members.GetByUsername(ctx, requesterUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requester: %w", err)
	}
	if article.AuthorID != requester.ID {
		return nil, fmt.Errorf("%w: only the author can change article status", domain.ErrUnauthorized)
	}

	if !article.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot move article from %s to %s", domain.ErrConflict, article.Status, next)
	}

	if err := s.articles.UpdateStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("failed to update article status: %w", err)
	}
	article.Status = next

	if next == domain.ArticleStatusCompleted {
		if err := s.notifier.NotifyReviewRequest(ctx, id); err != nil {
			s.logger.Warn("failed to send review requests",
				zap.String("articleId", id),
				zap.Error(err),
			)
		}
	}

	return article, nil
}
