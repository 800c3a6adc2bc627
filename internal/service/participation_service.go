package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetboard/meetboard-api/internal/domain"
	"github.com/meetboard/meetboard-api/internal/repository"
)

// approvalPoints is added to an applicant's rank score when their
// application is approved.
const approvalPoints = 2.0

// ParticipationNotifier covers the notification triggers fired by
// participation state changes.
type ParticipationNotifier interface {
	NotifyApplyParticipation(ctx context.Context, articleID, applicantUsername string) error
	NotifyApproveParticipation(ctx context.Context, applicantNickname, articleID string) error
	NotifyRejectParticipation(ctx context.Context, applicantNickname, articleID string) error
	NotifyCancelParticipation(ctx context.Context, articleID, cancelerUsername string) error
}

type ParticipationService struct {
	participations repository.ParticipationRepository
	articles       repository.ArticleRepository
	members        repository.MemberRepository
	notifier       ParticipationNotifier
	logger         *zap.Logger
}

func NewParticipationService(
	participations repository.ParticipationRepository,
	articles repository.ArticleRepository,
	members repository.MemberRepository,
	notifier ParticipationNotifier,
	logger *zap.Logger,
) (*ParticipationService, error) {
	if notifier == nil {
		return nil, fmt.Errorf("participation notifier is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ParticipationService{
		participations: participations,
		articles:       articles,
		members:        members,
		notifier:       notifier,
		logger:         logger,
	}, nil
}

// Apply files a pending application for the article and notifies its
// author. Authors cannot apply to their own article, and a member can
// hold at most one active application per article.
func (s *ParticipationService) Apply(ctx context.Context, articleID, applicantUsername string) (*domain.ParticipationApplication, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.Status != domain.ArticleStatusOpen {
		return nil, fmt.Errorf("%w: article is not open for applications", domain.ErrConflict)
	}
	if article.IsFull() {
		return nil, fmt.Errorf("%w: article is full", domain.ErrConflict)
	}

	applicant, err := s.members.GetByUsername(ctx, applicantUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve applicant: %w", err)
	}
	if article.AuthorID == applicant.ID {
		return nil, fmt.Errorf("%w: authors cannot apply to their own article", domain.ErrConflict)
	}

	if _, err := s.participations.GetActiveByArticleAndApplicant(ctx, articleID, applicant.ID); err == nil {
		return nil, fmt.Errorf("%w: an active application already exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}

	now := time.Now().UTC()
	application := &domain.ParticipationApplication{
		ID:          uuid.NewString(),
		ArticleID:   articleID,
		ApplicantID: applicant.ID,
		Status:      domain.ParticipationPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.participations.Create(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	if err := s.notifier.NotifyApplyParticipation(ctx, articleID, applicantUsername); err != nil {
		s.logger.Warn("failed to notify article author about application",
			zap.String("articleId", articleID),
			zap.String("applicant", applicantUsername),
			zap.Error(err),
		)
	}

	return application, nil
}

// Approve moves a pending application to APPROVED, bumps the
// participant count and the applicant's rank score, and notifies the
// applicant. Only the article author may approve.
func (s *ParticipationService) Approve(ctx context.Context, applicationID, requesterUsername string) error {
	application, article, err := s.loadForDecision(ctx, applicationID, requesterUsername)
	if err != nil {
		return err
	}

	if err := s.participations.UpdateStatus(ctx, applicationID, domain.ParticipationPending, domain.ParticipationApproved); err != nil {
		return err
	}

	if err := s.articles.AdjustParticipants(ctx, article.ID, 1); err != nil {
		return fmt.Errorf("failed to increment participant count: %w", err)
	}

	applicant, err := s.members.GetByID(ctx, application.ApplicantID)
	if err != nil {
		return fmt.Errorf("failed to resolve applicant: %w", err)
	}

	if err := s.members.AddRankScore(ctx, applicant.Username, approvalPoints); err != nil {
		s.logger.Warn("failed to add rank score",
			zap.String("username", applicant.Username),
			zap.Error(err),
		)
	}

	if err := s.notifier.NotifyApproveParticipation(ctx, applicant.Nickname, article.ID); err != nil {
		s.logger.Warn("failed to notify applicant about approval",
			zap.String("articleId", article.ID),
			zap.String("applicant", applicant.Username),
			zap.Error(err),
		)
	}

	return nil
}

// Reject moves a pending application to REJECTED and notifies the
// applicant. Only the article author may reject.
func (s *ParticipationService) Reject(ctx context.Context, applicationID, requesterUsername string) error {
	application, article, err := s.loadForDecision(ctx, applicationID, requesterUsername)
	if err != nil {
		return err
	}

	if err := s.participations.UpdateStatus(ctx, applicationID, domain.ParticipationPending, domain.ParticipationRejected); err != nil {
		return err
	}

	applicant, err := s.members.GetByID(ctx, application.ApplicantID)
	if err != nil {
		return fmt.Errorf("failed to resolve applicant: %w", err)
	}

	if err := s.notifier.NotifyRejectParticipation(ctx, applicant.Nickname, article.ID); err != nil {
		s.logger.Warn("failed to notify applicant about rejection",
			zap.String("articleId", article.ID),
			zap.String("applicant", applicant.Username),
			zap.Error(err),
		)
	}

	return nil
}

// Cancel withdraws the caller's own active application and notifies
// the article author. An approved participant who cancels also frees
// their seat.
func (s *ParticipationService) Cancel(ctx context.Context, articleID, applicantUsername string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	applicant, err := s.members.GetByUsername(ctx, applicantUsername)
	if err != nil {
		return fmt.Errorf("failed to resolve applicant: %w", err)
	}

	application, err := s.participations.GetActiveByArticleAndApplicant(ctx, articleID, applicant.ID)
	if err != nil {
		return err
	}

	wasApproved := application.Status == domain.ParticipationApproved

	if err := s.participations.UpdateStatus(ctx, application.ID, application.Status, domain.ParticipationCanceled); err != nil {
		return err
	}

	if wasApproved {
		if err := s.articles.AdjustParticipants(ctx, articleID, -1); err != nil {
			return fmt.Errorf("failed to decrement participant count: %w", err)
		}
	}

	if err := s.notifier.NotifyCancelParticipation(ctx, articleID, applicantUsername); err != nil {
		s.logger.Warn("failed to notify article author about cancellation",
			zap.String("articleId", articleID),
			zap.String("applicant", applicantUsername),
			zap.Error(err),
		)
	}

	return nil
}

// ListApplicants returns the pending applicants of an article. Only
// the article author may view them.
func (s *ParticipationService) ListApplicants(ctx context.Context, articleID, requesterUsername string) ([]domain.Applicant, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	requester, err := s.members.GetByUsername(ctx, requesterUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requester: %w", err)
	}
	if article.AuthorID != requester.ID {
		return nil, fmt.Errorf("%w: only the author can list applicants", domain.ErrUnauthorized)
	}

	return s.participations.ListPendingApplicants(ctx, articleID)
}

func (s *ParticipationService) loadForDecision(ctx context.Context, applicationID, requesterUsername string) (*domain.ParticipationApplication, *domain.GatherArticle, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := s.participations.GetByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}

	article, err := s.articles.GetByID(ctx, application.ArticleID)
	if err != nil {
		return nil, nil, err
	}

	requester, err := s.members.GetByUsername(ctx, requesterUsername)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve requester: %w", err)
	}
	if article.AuthorID != requester.ID {
		return nil, nil, fmt.Errorf("%w: only the author can decide applications", domain.ErrUnauthorized)
	}

	return application, article, nil
}
