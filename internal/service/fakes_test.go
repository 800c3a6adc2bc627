package service

import (
	"context"
	"fmt"

	"github.com/meetboard/meetboard-api/internal/domain"
	"github.com/meetboard/meetboard-api/internal/repository"
)

type fakeMemberRepo struct {
	createFn                func(ctx context.Context, m *domain.Member) error
	getByIDFn               func(ctx context.Context, id string) (*domain.Member, error)
	getByUsernameFn         func(ctx context.Context, username string) (*domain.Member, error)
	existsByUsernameFn      func(ctx context.Context, username string) (bool, error)
	existsByNicknameFn      func(ctx context.Context, nickname string) (bool, error)
	getUsernameByNicknameFn func(ctx context.Context, nickname string) (string, error)
	addRankScoreFn          func(ctx context.Context, username string, points float64) error
	listTopRankedFn         func(ctx context.Context, limit int) ([]domain.RankEntry, error)
	resetMonthlyScoresFn    func(ctx context.Context) error
}

var _ repository.MemberRepository = (*fakeMemberRepo)(nil)

func (f *fakeMemberRepo) Create(ctx context.Context, m *domain.Member) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, m)
}

func (f *fakeMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	if f.getByIDFn == nil {
		return nil, fmt.Errorf("%w: member id %q", domain.ErrNotFound, id)
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeMemberRepo) GetByUsername(ctx context.Context, username string) (*domain.Member, error) {
	if f.getByUsernameFn == nil {
		return nil, fmt.Errorf("%w: member %q", domain.ErrNotFound, username)
	}
	return f.getByUsernameFn(ctx, username)
}

func (f *fakeMemberRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if f.existsByUsernameFn == nil {
		return false, nil
	}
	return f.existsByUsernameFn(ctx, username)
}

func (f *fakeMemberRepo) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	if f.existsByNicknameFn == nil {
		return false, nil
	}
	return f.existsByNicknameFn(ctx, nickname)
}

func (f *fakeMemberRepo) GetUsernameByNickname(ctx context.Context, nickname string) (string, error) {
	if f.getUsernameByNicknameFn == nil {
		return "", fmt.Errorf("%w: nickname %q", domain.ErrNotFound, nickname)
	}
	return f.getUsernameByNicknameFn(ctx, nickname)
}

func (f *fakeMemberRepo) AddRankScore(ctx context.Context, username string, points float64) error {
	if f.addRankScoreFn == nil {
		return nil
	}
	return f.addRankScoreFn(ctx, username, points)
}

func (f *fakeMemberRepo) ListTopRanked(ctx context.Context, limit int) ([]domain.RankEntry, error) {
	if f.listTopRankedFn == nil {
		return nil, nil
	}
	return f.listTopRankedFn(ctx, limit)
}

func (f *fakeMemberRepo) ResetMonthlyScores(ctx context.Context) error {
	if f.resetMonthlyScoresFn == nil {
		return nil
	}
	return f.resetMonthlyScoresFn(ctx)
}

type fakeArticleRepo struct {
	createFn                func(ctx context.Context, a *domain.GatherArticle) error
	getByIDFn               func(ctx context.Context, id string) (*domain.GatherArticle, error)
	listFn                  func(ctx context.Context, params repository.ArticleListParams) ([]domain.GatherArticle, int64, error)
	updateStatusFn          func(ctx context.Context, id string, status domain.ArticleStatus) error
	adjustParticipantsFn    func(ctx context.Context, id string, delta int) error
	getTitleByIDFn          func(ctx context.Context, id string) (string, error)
	getAuthorUsernameByIDFn func(ctx context.Context, id string) (string, error)
}

var _ repository.ArticleRepository = (*fakeArticleRepo)(nil)

func (f *fakeArticleRepo) Create(ctx context.Context, a *domain.GatherArticle) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, a)
}

func (f *fakeArticleRepo) GetByID(ctx context.Context, id string) (*domain.GatherArticle, error) {
	if f.getByIDFn == nil {
		return nil, fmt.Errorf("%w: article %q", domain.ErrNotFound, id)
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeArticleRepo) List(ctx context.Context, params repository.ArticleListParams) ([]domain.GatherArticle, int64, error) {
	if f.listFn == nil {
		return nil, 0, nil
	}
	return f.listFn(ctx, params)
}

func (f *fakeArticleRepo) UpdateStatus(ctx context.Context, id string, status domain.ArticleStatus) error {
	if f.updateStatusFn == nil {
		return nil
	}
	return f.updateStatusFn(ctx, id, status)
}

func (f *fakeArticleRepo) AdjustParticipants(ctx context.Context, id string, delta int) error {
	if f.adjustParticipantsFn == nil {
		return nil
	}
	return f.adjustParticipantsFn(ctx, id, delta)
}

func (f *fakeArticleRepo) GetTitleByID(ctx context.Context, id string) (string, error) {
	if f.getTitleByIDFn == nil {
		return "", fmt.Errorf("%w: article %q", domain.ErrNotFound, id)
	}
	return f.getTitleByIDFn(ctx, id)
}

func (f *fakeArticleRepo) GetAuthorUsernameByID(ctx context.Context, id string) (string, error) {
	if f.getAuthorUsernameByIDFn == nil {
		return "", fmt.Errorf("%w: article %q", domain.ErrNotFound, id)
	}
	return f.getAuthorUsernameByIDFn(ctx, id)
}

type fakeParticipationRepo struct {
	createFn                         func(ctx context.Context, p *domain.ParticipationApplication) error
	getByIDFn                        func(ctx context.Context, id string) (*domain.ParticipationApplication, error)
	getActiveByArticleAndApplicantFn func(ctx context.Context, articleID, applicantID string) (*domain.ParticipationApplication, error)
	updateStatusFn                   func(ctx context.Context, id string, from, to domain.ParticipationStatus) error
	listPendingApplicantsFn          func(ctx context.Context, articleID string) ([]domain.Applicant, error)
	listApprovedUsernamesFn          func(ctx context.Context, articleID string) ([]string, error)
}

var _ repository.ParticipationRepository = (*fakeParticipationRepo)(nil)

func (f *fakeParticipationRepo) Create(ctx context.Context, p *domain.ParticipationApplication) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, p)
}

func (f *fakeParticipationRepo) GetByID(ctx context.Context, id string) (*domain.ParticipationApplication, error) {
	if f.getByIDFn == nil {
		return nil, fmt.Errorf("%w: application %q", domain.ErrNotFound, id)
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeParticipationRepo) GetActiveByArticleAndApplicant(ctx context.Context, articleID, applicantID string) (*domain.ParticipationApplication, error) {
	if f.getActiveByArticleAndApplicantFn == nil {
		return nil, fmt.Errorf("%w: no active application", domain.ErrNotFound)
	}
	return f.getActiveByArticleAndApplicantFn(ctx, articleID, applicantID)
}

func (f *fakeParticipationRepo) UpdateStatus(ctx context.Context, id string, from, to domain.ParticipationStatus) error {
	if f.updateStatusFn == nil {
		return nil
	}
	return f.updateStatusFn(ctx, id, from, to)
}

func (f *fakeParticipationRepo) ListPendingApplicants(ctx context.Context, articleID string) ([]domain.Applicant, error) {
	if f.listPendingApplicantsFn == nil {
		return nil, nil
	}
	return f.listPendingApplicantsFn(ctx, articleID)
}

func (f *fakeParticipationRepo) ListApprovedUsernames(ctx context.Context, articleID string) ([]string, error) {
	if f.listApprovedUsernamesFn == nil {
		return nil, nil
	}
	return f.listApprovedUsernamesFn(ctx, articleID)
}

type fakeCommentRepo struct {
	createFn                       func(ctx context.Context, c *domain.Comment) error
	getByIDFn                      func(ctx context.Context, id string) (*domain.Comment, error)
	listByArticleFn                func(ctx context.Context, articleID string) ([]domain.Comment, error)
	getAuthorUsernameByCommentIDFn func(ctx context.Context, id string) (string, error)
}

var _ repository.CommentRepository = (*fakeCommentRepo)(nil)

func (f *fakeCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, c)
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	if f.getByIDFn == nil {
		return nil, fmt.Errorf("%w: comment %q", domain.ErrNotFound, id)
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeCommentRepo) ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error) {
	if f.listByArticleFn == nil {
		return nil, nil
	}
	return f.listByArticleFn(ctx, articleID)
}

func (f *fakeCommentRepo) GetAuthorUsernameByCommentID(ctx context.Context, id string) (string, error) {
	if f.getAuthorUsernameByCommentIDFn == nil {
		return "", fmt.Errorf("%w: comment %q", domain.ErrNotFound, id)
	}
	return f.getAuthorUsernameByCommentIDFn(ctx, id)
}

type fakeNotificationRepo struct {
	createFn               func(ctx context.Context, n *domain.Notification) error
	listByMemberUsernameFn func(ctx context.Context, username string) ([]domain.Notification, error)

	created []domain.Notification
}

var _ repository.NotificationRepository = (*fakeNotificationRepo)(nil)

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, n)
	}
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByMemberUsername(ctx context.Context, username string) ([]domain.Notification, error) {
	if f.listByMemberUsernameFn == nil {
		return nil, nil
	}
	return f.listByMemberUsernameFn(ctx, username)
}
