package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/meetboard/meetboard-api/internal/domain"
	"gorm.io/gorm"
)

type MemberRepository interface {
	Create(ctx context.Context, m *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByUsername(ctx context.Context, username string) (*domain.Member, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	GetUsernameByNickname(ctx context.Context, nickname string) (string, error)
	AddRankScore(ctx context.Context, username string, points float64) error
	ListTopRanked(ctx context.Context, limit int) ([]domain.RankEntry, error)
	ResetMonthlyScores(ctx context.Context) error
}

type GormMemberRepo struct {
	db *gorm.DB
}

func NewGormMemberRepo(db *gorm.DB) *GormMemberRepo {
	return &GormMemberRepo{db: db}
}

func (r *GormMemberRepo) Create(ctx context.Context, m *domain.Member) error {
	model := memberModelFromDomain(m)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	if m != nil {
		*m = *memberModelToDomain(model)
	}
	return nil
}

func (r *GormMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	var model MemberModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return memberModelToDomain(&model), nil
}

func (r *GormMemberRepo) GetByUsername(ctx context.Context, username string) (*domain.Member, error) {
	var model MemberModel
	err := r.db.WithContext(ctx).First(&model, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return memberModelToDomain(&model), nil
}

func (r *GormMemberRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&MemberModel{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormMemberRepo) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&MemberModel{}).
		Where("nickname = ?", nickname).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormMemberRepo) GetUsernameByNickname(ctx context.Context, nickname string) (string, error) {
	var model MemberModel
	err := r.db.WithContext(ctx).
		Select("username").
		First(&model, "nickname = ?", nickname).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return model.Username, nil
}

func (r *GormMemberRepo) AddRankScore(ctx context.Context, username string, points float64) error {
	result := r.db.WithContext(ctx).
		Model(&MemberModel{}).
		Where("username = ?", username).
		Updates(map[string]any{
			"rank_score":    gorm.Expr("rank_score + ?", points),
			"monthly_score": gorm.Expr("monthly_score + ?", points),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormMemberRepo) ListTopRanked(ctx context.Context, limit int) ([]domain.RankEntry, error) {
	if limit < 1 {
		limit = 3
	}

	var models []MemberModel
	err := r.db.WithContext(ctx).
		Order("monthly_score DESC, nickname ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domain.RankEntry, 0, len(models))
	for i := range models {
		entries = append(entries, domain.RankEntry{
			Nickname:  models[i].Nickname,
			RankScore: models[i].MonthlyScore,
		})
	}
	return entries, nil
}

func (r *GormMemberRepo) ResetMonthlyScores(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&MemberModel{}).
		Where("monthly_score <> 0").
		Update("monthly_score", 0).Error
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
