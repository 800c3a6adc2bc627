package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meetboard/meetboard-api/internal/domain"
)

type fakeReviewNotifier struct {
	calls []string
	err   error
}

func (f *fakeReviewNotifier) NotifyReviewRequest(ctx context.Context, articleID string) error {
	f.calls = append(f.calls, articleID)
	return f.err
}

func articleFixture(id, authorID string, status domain.ArticleStatus) *domain.GatherArticle {
	return &domain.GatherArticle{
		ID:              id,
		AuthorID:        authorID,
		Title:           "Board Game Night",
		MaxParticipants: 4,
		Status:          status,
	}
}

func newTestArticleService(t *testing.T, articles *fakeArticleRepo, members *fakeMemberRepo, notifier *fakeReviewNotifier) *ArticleService {
	t.Helper()

	svc, err := NewArticleService(articles, members, notifier, nil)
	if err != nil {
		t.Fatalf("NewArticleService() error = %v", err)
	}
	return svc
}

func TestCreateArticle(t *testing.T) {
	t.Parallel()

	members := &fakeMemberRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.Member, error) {
			return memberFixture(username, "Alice"), nil
		},
	}
	var created *domain.GatherArticle
	articles := &fakeArticleRepo{
		createFn: func(ctx context.Context, a *domain.GatherArticle) error {
			created = a
			return nil
		},
	}
	svc := newTestArticleService(t, articles, members, &fakeReviewNotifier{})

	start := time.Now().Add(24 * time.Hour)
	article, err := svc.Create(context.Background(), "alice", CreateArticleInput{
		Title:           "Board Game Night",
		MeetingPlace:    "Cafe Meeple",
		MaxParticipants: 4,
		StartAt:         start,
		EndAt:           start.Add(3 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created == nil {
		t.Fatal("expected article to be persisted")
	}
	if article.Status != domain.ArticleStatusOpen {
		t.Errorf("Status = %q, want %q", article.Status, domain.ArticleStatusOpen)
	}
	if article.AuthorID != "member-alice" {
		t.Errorf("AuthorID = %q, want member-alice", article.AuthorID)
	}
}

func TestCreateArticleValidation(t *testing.T) {
	t.Parallel()

	members := &fakeMemberRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.Member, error) {
			return memberFixture(username, "Alice"), nil
		},
	}
	svc := newTestArticleService(t, &fakeArticleRepo{}, members, &fakeReviewNotifier{})

	_, err := svc.Create(context.Background(), "alice", CreateArticleInput{
		Title:           "",
		MaxParticipants: 4,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Create() error = %v, want %v", err, domain.ErrValidation)
	}
}

func TestUpdateArticleStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		current     domain.ArticleStatus
		next        domain.ArticleStatus
		requester   string
		wantErr     error
		wantReviews int
	}{
		{
			name:      "open to closed",
			current:   domain.ArticleStatusOpen,
			next:      domain.ArticleStatusClosed,
			requester: "alice",
		},
		{
			name:        "closed to completed triggers reviews",
			current:     domain.ArticleStatusClosed,
			next:        domain.ArticleStatusCompleted,
			requester:   "alice",
			wantReviews: 1,
		},
		{
			name:      "completed is terminal",
			current:   domain.ArticleStatusCompleted,
			next:      domain.ArticleStatusClosed,
			requester: "alice",
			wantErr:   domain.ErrConflict,
		},
		{
			name:      "non author rejected",
			current:   domain.ArticleStatusOpen,
			next:      domain.ArticleStatusClosed,
			requester: "bob",
			wantErr:   domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			articles := &fakeArticleRepo{
				getByIDFn: func(ctx context.Context, id string) (*domain.GatherArticle, error) {
					return articleFixture(id, "member-alice", tt.current), nil
				},
			}
			members := &fakeMemberRepo{
				getByUsernameFn: func(ctx context.Context, username string) (*domain.Member, error) {
					return memberFixture(username, username), nil
				},
			}
			notifier := &fakeReviewNotifier{}
			svc := newTestArticleService(t, articles, members, notifier)

			_, err := svc.UpdateStatus(context.Background(), "article-1", tt.requester, tt.next)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UpdateStatus() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateStatus() error = %v", err)
			}
			if len(notifier.calls) != tt.wantReviews {
				t.Errorf("review notifications = %d, want %d", len(notifier.calls), tt.wantReviews)
			}
		})
	}
}

func TestUpdateArticleStatusNotifierFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	articles := &fakeArticleRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.GatherArticle, error) {
			return articleFixture(id, "member-alice", domain.ArticleStatusClosed), nil
		},
	}
	members := &fakeMemberRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.Member, error) {
			return memberFixture(username, "Alice"), nil
		},
	}
	notifier := &fakeReviewNotifier{err: errors.New("boom")}
	svc := newTestArticleService(t, articles, members, notifier)

	article, err := svc.UpdateStatus(context.Background(), "article-1", "alice", domain.ArticleStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v, want nil despite notifier failure", err)
	}
	if article.Status != domain.ArticleStatusCompleted {
		t.Errorf("Status = %q, want %q", article.Status, domain.ArticleStatusCompleted)
	}
}
