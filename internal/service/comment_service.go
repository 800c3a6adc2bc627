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

// CommentNotifier is called after a comment or reply is written.
type CommentNotifier interface {
	NotifyWriteComment(ctx context.Context, articleID string, parentID *string, writerUsername string) error
}

type CommentService struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
	members  repository.MemberRepository
	notifier CommentNotifier
	logger   *zap.Logger
}

func NewCommentService(
	comments repository.CommentRepository,
	articles repository.ArticleRepository,
	members repository.MemberRepository,
	notifier CommentNotifier,
	logger *zap.Logger,
) (*CommentService, error) {
	if notifier == nil {
		return nil, fmt.Errorf("comment notifier is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CommentService{
		comments: comments,
		articles: articles,
		members:  members,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// Create writes a comment on an article, or a reply when parentID is
// set. Replies must reference a parent on the same article.
func (s *CommentService) Create(ctx context.Context, articleID, authorUsername, content string, parentID *string) (*domain.Comment, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		return nil, err
	}

	author, err := s.members.GetByUsername(ctx, authorUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve comment author: %w", err)
	}

	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.ArticleID != articleID {
			return nil, fmt.Errorf("%w: parent comment belongs to a different article", domain.ErrValidation)
		}
		if parent.IsReply() {
			return nil, fmt.Errorf("%w: replies cannot be nested", domain.ErrValidation)
		}
	}

	comment := &domain.Comment{
		ID:        uuid.NewString(),
		ArticleID: articleID,
		AuthorID:  author.ID,
		ParentID:  parentID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := s.notifier.NotifyWriteComment(ctx, articleID, parentID, authorUsername); err != nil {
		s.logger.Warn("failed to notify about new comment",
			zap.String("articleId", articleID),
			zap.String("author", authorUsername),
			zap.Error(err),
		)
	}

	return comment, nil
}

func (s *CommentService) ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		return nil, err
	}

	return s.comments.ListByArticle(ctx, articleID)
}
