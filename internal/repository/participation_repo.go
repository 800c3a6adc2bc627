package repository

import (
	"context"
	"errors"

	"github.com/meetboard/meetboard-api/internal/domain"
	"gorm.io/gorm"
)

type ParticipationRepository interface {
	Create(ctx context.Context, p *domain.ParticipationApplication) error
	GetByID(ctx context.Context, id string) (*domain.ParticipationApplication, error)
	GetActiveByArticleAndApplicant(ctx context.Context, articleID string, applicantID string) (*domain.ParticipationApplication, error)
	UpdateStatus(ctx context.Context, id string, from domain.ParticipationStatus, to domain.ParticipationStatus) error
	ListPendingApplicants(ctx context.Context, articleID string) ([]domain.Applicant, error)
	ListApprovedUsernames(ctx context.Context, articleID string) ([]string, error)
}

type GormParticipationRepo struct {
	db *gorm.DB
}

func NewGormParticipationRepo(db *gorm.DB) *GormParticipationRepo {
	return &GormParticipationRepo{db: db}
}

func (r *GormParticipationRepo) Create(ctx context.Context, p *domain.ParticipationApplication) error {
	model := applicationModelFromDomain(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if p != nil {
		*p = *applicationModelToDomain(model)
	}
	return nil
}

func (r *GormParticipationRepo) GetByID(ctx context.Context, id string) (*domain.ParticipationApplication, error) {
	var model ParticipationApplicationModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return applicationModelToDomain(&model), nil
}

func (r *GormParticipationRepo) GetActiveByArticleAndApplicant(ctx context.Context, articleID string, applicantID string) (*domain.ParticipationApplication, error) {
	var model ParticipationApplicationModel
	err := r.db.WithContext(ctx).
		Where("article_id = ? AND applicant_id = ? AND status IN ?",
			articleID, applicantID,
			[]domain.ParticipationStatus{domain.ParticipationPending, domain.ParticipationApproved}).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return applicationModelToDomain(&model), nil
}

// UpdateStatus transitions an application only when it is still in the
// expected state, so racing approvals and cancellations cannot double-apply.
func (r *GormParticipationRepo) UpdateStatus(ctx context.Context, id string, from domain.ParticipationStatus, to domain.ParticipationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&ParticipationApplicationModel{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *GormParticipationRepo) ListPendingApplicants(ctx context.Context, articleID string) ([]domain.Applicant, error) {
	var applicants []domain.Applicant
	err := r.db.WithContext(ctx).
		Model(&ParticipationApplicationModel{}).
		Select("participation_applications.id AS application_id, members.nickname AS nickname, participation_applications.created_at AS applied_at").
		Joins("JOIN members ON members.id = participation_applications.applicant_id").
		Where("participation_applications.article_id = ? AND participation_applications.status = ?",
			articleID, domain.ParticipationPending).
		Order("participation_applications.created_at ASC").
		Scan(&applicants).Error
	if err != nil {
		return nil, err
	}
	return applicants, nil
}

func (r *GormParticipationRepo) ListApprovedUsernames(ctx context.Context, articleID string) ([]string, error) {
	var usernames []string
	err := r.db.WithContext(ctx).
		Model(&ParticipationApplicationModel{}).
		Select("members.username").
		Joins("JOIN members ON members.id = participation_applications.applicant_id").
		Where("participation_applications.article_id = ? AND participation_applications.status = ?",
			articleID, domain.ParticipationApproved).
		Scan(&usernames).Error
	if err != nil {
		return nil, err
	}
	return usernames, nil
}
