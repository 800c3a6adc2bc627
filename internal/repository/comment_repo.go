package repository

import (
	"context"
	"errors"

	"github.com/meetboard/meetboard-api/internal/domain"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error)
	GetAuthorUsernameByCommentID(ctx context.Context, id string) (string, error)
}

type GormCommentRepo struct {
	db *gorm.DB
}

func NewGormCommentRepo(db *gorm.DB) *GormCommentRepo {
	return &GormCommentRepo{db: db}
}

func (r *GormCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	model := commentModelFromDomain(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if c != nil {
		*c = *commentModelToDomain(model)
	}
	return nil
}

func (r *GormCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	var model CommentModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return commentModelToDomain(&model), nil
}

func (r *GormCommentRepo) ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error) {
	var models []CommentModel
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(models))
	for i := range models {
		comments = append(comments, *commentModelToDomain(&models[i]))
	}
	return comments, nil
}

func (r *GormCommentRepo) GetAuthorUsernameByCommentID(ctx context.Context, id string) (string, error) {
	var username string
	err := r.db.WithContext(ctx).
		Model(&CommentModel{}).
		Select("members.username").
		Joins("JOIN members ON members.id = comments.author_id").
		Where("comments.id = ?", id).
		Scan(&username).Error
	if err != nil {
		return "", err
	}
	if username == "" {
		return "", domain.ErrNotFound
	}
	return username, nil
}
