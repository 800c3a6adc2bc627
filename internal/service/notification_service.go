package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetboard/meetboard-api/internal/domain"
	"github.com/meetboard/meetboard-api/internal/observability"
	"github.com/meetboard/meetboard-api/internal/repository"
	"github.com/meetboard/meetboard-api/internal/sse"
)

// NotificationService persists notifications and pushes them to live
// SSE subscribers. Persistence always happens; the live push is best
// effort and its failures never surface to the triggering request.
type NotificationService struct {
	members        repository.MemberRepository
	articles       repository.ArticleRepository
	participations repository.ParticipationRepository
	comments       repository.CommentRepository
	notifications  repository.NotificationRepository
	registry       *sse.Registry
	formatter      *MessageFormatter
	metrics        *observability.Metrics
	logger         *zap.Logger
}

func NewNotificationService(
	members repository.MemberRepository,
	articles repository.ArticleRepository,
	participations repository.ParticipationRepository,
	comments repository.CommentRepository,
	notifications repository.NotificationRepository,
	registry *sse.Registry,
	formatter *MessageFormatter,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*NotificationService, error) {
	if registry == nil {
		return nil, fmt.Errorf("sse registry is required")
	}
	if formatter == nil {
		formatter = NewMessageFormatter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationService{
		members:        members,
		articles:       articles,
		participations: participations,
		comments:       comments,
		notifications:  notifications,
		registry:       registry,
		formatter:      formatter,
		metrics:        metrics,
		logger:         logger,
	}, nil
}

// Subscribe opens a new SSE connection for the member, replacing any
// previous connection registered under the same username.
func (s *NotificationService) Subscribe(username string) (*sse.Connection, error) {
	conn, err := s.registry.Subscribe(username)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncSubscription("failed")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncSubscription("opened")
	}

	return conn, nil
}

// Dispatch stores a notification for the member and attempts a live
// push. A missing member is a hard error; everything after the durable
// write is best effort.
func (s *NotificationService) Dispatch(ctx context.Context, username, message string, kind domain.EventKind) error {
	if ctx == nil {
		ctx = context.Background()
	}

	member, err := s.members.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to resolve notification recipient: %w", err)
	}

	notification := &domain.Notification{
		ID:        uuid.NewString(),
		MemberID:  member.ID,
		Message:   message,
		EventKind: kind,
		CreatedAt: time.Now().UTC(),
	}
	if err := notification.Validate(); err != nil {
		return err
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}
	if s.metrics != nil {
		s.metrics.IncNotificationPersisted(kind.String())
	}

	conn, ok := s.registry.Lookup(username)
	if !ok {
		if s.metrics != nil {
			s.metrics.IncNotificationPush(kind.String(), "not_connected")
		}
		return nil
	}

	if err := conn.Send(sse.Event{Name: kind.String(), Data: message}); err != nil {
		s.registry.Remove(username)
		s.logger.Warn("evicted stale sse connection after push failure",
			zap.String("username", username),
			zap.String("eventKind", kind.String()),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.IncNotificationPush(kind.String(), "evicted")
		}
		return nil
	}

	if s.metrics != nil {
		s.metrics.IncNotificationPush(kind.String(), "delivered")
	}

	return nil
}

// NotifyApplyParticipation tells the article author that someone
// applied to their gathering.
func (s *NotificationService) NotifyApplyParticipation(ctx context.Context, articleID, applicantUsername string) error {
	authorUsername, err := s.articles.GetAuthorUsernameByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to resolve article author: %w", err)
	}

	applicant, err := s.members.GetByUsername(ctx, applicantUsername)
	if err != nil {
		return fmt.Errorf("failed to resolve applicant: %w", err)
	}

	title, err := s.articles.GetTitleByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to resolve article title: %w", err)
	}

	message := s.formatter.ApplyParticipation(applicant.Nickname, title)
	return s.Dispatch(ctx, authorUsername, message, domain.EventApplyParticipation)
}

// NotifyApproveParticipation tells an applicant, addressed by
// nickname, that their application was approved.
func (s *NotificationService) NotifyApproveParticipation(ctx context.Context, applicantNickname, articleID string) error {
	username, err := s.members.GetUsernameByNickname(ctx, applicantNickname)
	if err != nil {
		return fmt.Errorf("failed to resolve applicant username: %w", err)
	}

	title, err := s.articles.GetTitleByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to resolve article title: %w", err)
	}

	message := s.formatter.ApproveParticipation(title)
	return s.Dispatch(ctx, username, message, domain.EventApproveParticipation)
}

// NotifyRejectParticipation tells an applicant, addressed by nickname,
// that their application was rejected.
func (s *NotificationService) NotifyRejectParticipation(ctx context.Context, applicantNickname, articleID string) error {
	username, err := s.members.GetUsernameByNickname(ctx, applicantNickname)
	if err != nil {
		return fmt.Errorf("failed to resolve applicant username: %w", err)
	}

	title, err := s.articles.GetTitleByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to resolve article title: %w", err)
	}

	message := s.formatter.RejectParticipation(title)
	return s.Dispatch(ctx, username, message, domain.EventRejectParticipation)
}

// NotifyCancelParticipation tells the article author that an applicant
// withdrew.
func (s *NotificationService) NotifyCancelParticipation(ctx context.Context, articleID, cancelerUsername string) error {
	authorUsername, err := s.articles.GetAuthorUsernameByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to resolve article author: %w", err)
	}

	canceler, err := s.members.GetByUsername(ctx, cancelerUsername)
	if err != nil {
		return fmt.Errorf("failed to resolve canceling member: %w", err)
	}

	title, err := s.articles.GetTitleByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to resolve article title: %w", err)
	}

	message := s.formatter.CancelParticipation(canceler.Nickname, title)
	return s.Dispatch(ctx, authorUsername, message, domain.EventCancelParticipation)
}

// NotifyReviewRequest fans a review request out to every approved
// participant of a completed gathering. A failure for one recipient is
// logged and does not stop the fan-out.
func (s *NotificationService) NotifyReviewRequest(ctx context.Context, articleID string) error {
	title, err := s.articles.GetTitleByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to resolve article title: %w", err)
	}

	usernames, err := s.participations.ListApprovedUsernames(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to list participants: %w", err)
	}

	message := s.formatter.ReviewRequest(title)
	for _, username := range usernames {
		if err := s.Dispatch(ctx, username, message, domain.EventReviewRequest); err != nil {
			s.logger.Warn("failed to dispatch review request",
				zap.String("articleId", articleID),
				zap.String("username", username),
				zap.Error(err),
			)
		}
	}

	return nil
}

// NotifyWriteComment notifies the article author for a top-level
// comment, or the parent comment's author for a reply.
func (s *NotificationService) NotifyWriteComment(ctx context.Context, articleID string, parentID *string, writerUsername string) error {
	writer, err := s.members.GetByUsername(ctx, writerUsername)
	if err != nil {
		return fmt.Errorf("failed to resolve comment writer: %w", err)
	}

	title, err := s.articles.GetTitleByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to resolve article title: %w", err)
	}

	if parentID == nil {
		authorUsername, err := s.articles.GetAuthorUsernameByID(ctx, articleID)
		if err != nil {
			return fmt.Errorf("failed to resolve article author: %w", err)
		}

		message := s.formatter.WriteComment(writer.Nickname, title)
		return s.Dispatch(ctx, authorUsername, message, domain.EventWriteComment)
	}

	parentAuthorUsername, err := s.comments.GetAuthorUsernameByCommentID(ctx, *parentID)
	if err != nil {
		return fmt.Errorf("failed to resolve parent comment author: %w", err)
	}

	message := s.formatter.ReplyComment(writer.Nickname, title)
	return s.Dispatch(ctx, parentAuthorUsername, message, domain.EventWriteComment)
}

// GetNotifications returns the member's stored notifications, newest
// first.
func (s *NotificationService) GetNotifications(ctx context.Context, username string) ([]domain.Notification, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	exists, err := s.members.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to verify member: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: member %q", domain.ErrNotFound, username)
	}

	return s.notifications.ListByMemberUsername(ctx, username)
}
