package repository

import (
	"time"

	"github.com/meetboard/meetboard-api/internal/domain"
)

// MemberModel is the persistence model for the members table.
type MemberModel struct {
	ID           string  `gorm:"type:uuid;primaryKey"`
	Username     string  `gorm:"type:varchar(20);not null;uniqueIndex"`
	Nickname     string  `gorm:"type:varchar(20);not null;uniqueIndex"`
	Email        string  `gorm:"type:varchar(255)"`
	PasswordHash string  `gorm:"type:varchar(255);not null"`
	RankScore    float64 `gorm:"not null;default:50"`
	MonthlyScore float64 `gorm:"not null;default:0"`
	JoinCount    int     `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (MemberModel) TableName() string {
	return "members"
}

// GatherArticleModel is the persistence model for gather_articles.
type GatherArticleModel struct {
	ID                  string               `gorm:"type:uuid;primaryKey"`
	AuthorID            string               `gorm:"type:uuid;not null;index"`
	Title               string               `gorm:"type:varchar(100);not null"`
	Description         string               `gorm:"type:text"`
	MeetingPlace        string               `gorm:"type:varchar(255)"`
	MaxParticipants     int                  `gorm:"not null"`
	CurrentParticipants int                  `gorm:"not null;default:1"`
	StartAt             time.Time            `gorm:"type:timestamptz"`
	EndAt               time.Time            `gorm:"type:timestamptz"`
	Status              domain.ArticleStatus `gorm:"type:varchar(20);not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (GatherArticleModel) TableName() string {
	return "gather_articles"
}

// ParticipationApplicationModel is the persistence model for
// participation_applications.
type ParticipationApplicationModel struct {
	ID          string                     `gorm:"type:uuid;primaryKey"`
	ArticleID   string                     `gorm:"type:uuid;not null;index"`
	ApplicantID string                     `gorm:"type:uuid;not null;index"`
	Status      domain.ParticipationStatus `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ParticipationApplicationModel) TableName() string {
	return "participation_applications"
}

// CommentModel is the persistence model for comments.
type CommentModel struct {
	ID        string  `gorm:"type:uuid;primaryKey"`
	ArticleID string  `gorm:"type:uuid;not null;index"`
	AuthorID  string  `gorm:"type:uuid;not null"`
	ParentID  *string `gorm:"type:uuid"`
	Content   string  `gorm:"type:varchar(500);not null"`
	CreatedAt time.Time
}

func (CommentModel) TableName() string {
	return "comments"
}

// NotificationModel is the persistence model for notifications. Rows are
// append-only; the subsystem never updates or deletes them.
type NotificationModel struct {
	ID        string           `gorm:"type:uuid;primaryKey"`
	MemberID  string           `gorm:"type:uuid;not null;index:idx_notifications_member_created,priority:1"`
	Message   string           `gorm:"type:varchar(1000);not null"`
	EventKind domain.EventKind `gorm:"type:varchar(30);not null"`
	CreatedAt time.Time        `gorm:"index:idx_notifications_member_created,priority:2,sort:desc"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func memberModelFromDomain(m *domain.Member) *MemberModel {
	if m == nil {
		return nil
	}

	return &MemberModel{
		ID:           m.ID,
		Username:     m.Username,
		Nickname:     m.Nickname,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		RankScore:    m.RankScore,
		MonthlyScore: m.MonthlyScore,
		JoinCount:    m.JoinCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func memberModelToDomain(m *MemberModel) *domain.Member {
	if m == nil {
		return nil
	}

	return &domain.Member{
		ID:           m.ID,
		Username:     m.Username,
		Nickname:     m.Nickname,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		RankScore:    m.RankScore,
		MonthlyScore: m.MonthlyScore,
		JoinCount:    m.JoinCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func articleModelFromDomain(a *domain.GatherArticle) *GatherArticleModel {
	if a == nil {
		return nil
	}

	return &GatherArticleModel{
		ID:                  a.ID,
		AuthorID:            a.AuthorID,
		Title:               a.Title,
		Description:         a.Description,
		MeetingPlace:        a.MeetingPlace,
		MaxParticipants:     a.MaxParticipants,
		CurrentParticipants: a.CurrentParticipants,
		StartAt:             a.StartAt,
		EndAt:               a.EndAt,
		Status:              a.Status,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func articleModelToDomain(m *GatherArticleModel) *domain.GatherArticle {
	if m == nil {
		return nil
	}

	return &domain.GatherArticle{
		ID:                  m.ID,
		AuthorID:            m.AuthorID,
		Title:               m.Title,
		Description:         m.Description,
		MeetingPlace:        m.MeetingPlace,
		MaxParticipants:     m.MaxParticipants,
		CurrentParticipants: m.CurrentParticipants,
		StartAt:             m.StartAt,
		EndAt:               m.EndAt,
		Status:              m.Status,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func applicationModelFromDomain(p *domain.ParticipationApplication) *ParticipationApplicationModel {
	if p == nil {
		return nil
	}

	return &ParticipationApplicationModel{
		ID:          p.ID,
		ArticleID:   p.ArticleID,
		ApplicantID: p.ApplicantID,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func applicationModelToDomain(m *ParticipationApplicationModel) *domain.ParticipationApplication {
	if m == nil {
		return nil
	}

	return &domain.ParticipationApplication{
		ID:          m.ID,
		ArticleID:   m.ArticleID,
		ApplicantID: m.ApplicantID,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func commentModelFromDomain(c *domain.Comment) *CommentModel {
	if c == nil {
		return nil
	}

	return &CommentModel{
		ID:        c.ID,
		ArticleID: c.ArticleID,
		AuthorID:  c.AuthorID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func commentModelToDomain(m *CommentModel) *domain.Comment {
	if m == nil {
		return nil
	}

	return &domain.Comment{
		ID:        m.ID,
		ArticleID: m.ArticleID,
		AuthorID:  m.AuthorID,
		ParentID:  m.ParentID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func notificationModelFromDomain(n *domain.Notification) *NotificationModel {
	if n == nil {
		return nil
	}

	return &NotificationModel{
		ID:        n.ID,
		MemberID:  n.MemberID,
		Message:   n.Message,
		EventKind: n.EventKind,
		CreatedAt: n.CreatedAt,
	}
}

func notificationModelToDomain(m *NotificationModel) *domain.Notification {
	if m == nil {
		return nil
	}

	return &domain.Notification{
		ID:        m.ID,
		MemberID:  m.MemberID,
		Message:   m.Message,
		EventKind: m.EventKind,
		CreatedAt: m.CreatedAt,
	}
}
