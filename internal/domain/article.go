package domain

import (
	"fmt"
	"strings"
	"time"
)

// ArticleStatus is the lifecycle state of a gather article.
type ArticleStatus string

const (
	ArticleStatusOpen      ArticleStatus = "OPEN"
	ArticleStatusClosed    ArticleStatus = "CLOSED"
	ArticleStatusCompleted ArticleStatus = "COMPLETED"
)

func (s ArticleStatus) String() string { return string(s) }

func (s ArticleStatus) IsValid() bool {
	switch s {
	case ArticleStatusOpen, ArticleStatusClosed, ArticleStatusCompleted:
		return true
	}
	return false
}

func ParseArticleStatusFromString(s string) (ArticleStatus, error) {
	st := ArticleStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid article status %q", ErrValidation, s)
	}
	return st, nil
}

// CanTransitionTo reports whether a status change is allowed. Articles move
// forward only: OPEN -> CLOSED -> COMPLETED, with OPEN -> COMPLETED allowed
// for meetups that fill up and happen without an explicit close step.
func (s ArticleStatus) CanTransitionTo(next ArticleStatus) bool {
	switch s {
	case ArticleStatusOpen:
		return next == ArticleStatusClosed || next == ArticleStatusCompleted
	case ArticleStatusClosed:
		return next == ArticleStatusCompleted
	}
	return false
}

const (
	MaxArticleTitleLength       = 100
	MaxArticleDescriptionLength = 2000
)

// GatherArticle is a meetup recruitment post.
type GatherArticle struct {
	ID                  string
	AuthorID            string
	Title               string
	Description         string
	MeetingPlace        string
	MaxParticipants     int
	CurrentParticipants int
	StartAt             time.Time
	EndAt               time.Time
	Status              ArticleStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (a *GatherArticle) Validate() error {
	if strings.TrimSpace(a.AuthorID) == "" {
		return fmt.Errorf("%w: author id is required", ErrValidation)
	}
	title := strings.TrimSpace(a.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len([]rune(title)) > MaxArticleTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, MaxArticleTitleLength)
	}
	if len([]rune(a.Description)) > MaxArticleDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxArticleDescriptionLength)
	}
	if a.MaxParticipants < 2 {
		return fmt.Errorf("%w: max participants must be at least 2", ErrValidation)
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("%w: invalid article status %q", ErrValidation, a.Status)
	}
	if !a.EndAt.IsZero() && a.EndAt.Before(a.StartAt) {
		return fmt.Errorf("%w: end time precedes start time", ErrValidation)
	}
	return nil
}

// IsFull reports whether the article reached its participant limit.
func (a *GatherArticle) IsFull() bool {
	return a.CurrentParticipants >= a.MaxParticipants
}
