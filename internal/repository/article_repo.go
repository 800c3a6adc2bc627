package repository

import (
	"context"
	"errors"

	"github.com/meetboard/meetboard-api/internal/domain"
	"gorm.io/gorm"
)

type ArticleListParams struct {
	Status   *domain.ArticleStatus
	Page     int
	PageSize int
}

type ArticleRepository interface {
	Create(ctx context.Context, a *domain.GatherArticle) error
	GetByID(ctx context.Context, id string) (*domain.GatherArticle, error)
	List(ctx context.Context, params ArticleListParams) ([]domain.GatherArticle, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.ArticleStatus) error
	AdjustParticipants(ctx context.Context, id string, delta int) error
	GetTitleByID(ctx context.Context, id string) (string, error)
	GetAuthorUsernameByID(ctx context.Context, id string) (string, error)
}

type GormArticleRepo struct {
	db *gorm.DB
}

func NewGormArticleRepo(db *gorm.DB) *GormArticleRepo {
	return &GormArticleRepo{db: db}
}

func (r *GormArticleRepo) Create(ctx context.Context, a *domain.GatherArticle) error {
	model := articleModelFromDomain(a)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if a != nil {
		*a = *articleModelToDomain(model)
	}
	return nil
}

func (r *GormArticleRepo) GetByID(ctx context.Context, id string) (*domain.GatherArticle, error) {
	var model GatherArticleModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return articleModelToDomain(&model), nil
}

func (r *GormArticleRepo) List(ctx context.Context, params ArticleListParams) ([]domain.GatherArticle, int64, error) {
	query := r.db.WithContext(ctx).Model(&GatherArticleModel{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := max(params.Page, 1)
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	pageSize = min(pageSize, 100)

	var models []GatherArticleModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	articles := make([]domain.GatherArticle, 0, len(models))
	for i := range models {
		articles = append(articles, *articleModelToDomain(&models[i]))
	}

	return articles, total, nil
}

func (r *GormArticleRepo) UpdateStatus(ctx context.Context, id string, status domain.ArticleStatus) error {
	result := r.db.WithContext(ctx).
		Model(&GatherArticleModel{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormArticleRepo) AdjustParticipants(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&GatherArticleModel{}).
		Where("id = ?", id).
		Update("current_participants", gorm.Expr("current_participants + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormArticleRepo) GetTitleByID(ctx context.Context, id string) (string, error) {
	var model GatherArticleModel
	err := r.db.WithContext(ctx).
		Select("title").
		First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return model.Title, nil
}

func (r *GormArticleRepo) GetAuthorUsernameByID(ctx context.Context, id string) (string, error) {
	var username string
	err := r.db.WithContext(ctx).
		Model(&GatherArticleModel{}).
		Select("members.username").
		Joins("JOIN members ON members.id = gather_articles.author_id").
		Where("gather_articles.id = ?", id).
		Scan(&username).Error
	if err != nil {
		return "", err
	}
	if username == "" {
		return "", domain.ErrNotFound
	}
	return username, nil
}
