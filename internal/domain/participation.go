package domain

import (
	"fmt"
	"strings"
	"time"
)

// ParticipationStatus is the lifecycle state of a participation application.
type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "PENDING"
	ParticipationApproved ParticipationStatus = "APPROVED"
	ParticipationRejected ParticipationStatus = "REJECTED"
	ParticipationCanceled ParticipationStatus = "CANCELED"
)

func (s ParticipationStatus) String() string { return string(s) }

func (s ParticipationStatus) IsValid() bool {
	switch s {
	case ParticipationPending, ParticipationApproved, ParticipationRejected, ParticipationCanceled:
		return true
	}
	return false
}

// IsActive reports whether the application still occupies the applicant's
// slot for the article. Rejected and canceled applications may be re-applied.
func (s ParticipationStatus) IsActive() bool {
	return s == ParticipationPending || s == ParticipationApproved
}

// ParticipationApplication is one member's request to join a gather article.
type ParticipationApplication struct {
	ID          string
	ArticleID   string
	ApplicantID string
	Status      ParticipationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *ParticipationApplication) Validate() error {
	if strings.TrimSpace(p.ArticleID) == "" {
		return fmt.Errorf("%w: article id is required", ErrValidation)
	}
	if strings.TrimSpace(p.ApplicantID) == "" {
		return fmt.Errorf("%w: applicant id is required", ErrValidation)
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("%w: invalid participation status %q", ErrValidation, p.Status)
	}
	return nil
}

// Applicant is a projection of a pending application for the article author.
type Applicant struct {
	ApplicationID string    `json:"applicationId"`
	Nickname      string    `json:"nickname"`
	AppliedAt     time.Time `json:"appliedAt"`
}
