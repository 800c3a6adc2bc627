package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	MinUsernameLength = 4
	MaxUsernameLength = 20
	MinNicknameLength = 2
	MaxNicknameLength = 20
	MinPasswordLength = 8

	// InitialRankScore is assigned to every new member.
	InitialRankScore = 50.0
)

// Member is a registered user. Username is the stable identity key used
// to address notifications; Nickname is the display name shown to others.
type Member struct {
	ID           string
	Username     string
	Nickname     string
	Email        string
	PasswordHash string
	RankScore    float64
	MonthlyScore float64
	JoinCount    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (m *Member) Validate() error {
	username := strings.TrimSpace(m.Username)
	if l := len(username); l < MinUsernameLength || l > MaxUsernameLength {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrValidation, MinUsernameLength, MaxUsernameLength)
	}
	nickname := strings.TrimSpace(m.Nickname)
	if l := len([]rune(nickname)); l < MinNicknameLength || l > MaxNicknameLength {
		return fmt.Errorf("%w: nickname must be %d-%d characters", ErrValidation, MinNicknameLength, MaxNicknameLength)
	}
	if m.Email != "" {
		if _, err := mail.ParseAddress(m.Email); err != nil {
			return fmt.Errorf("%w: invalid email %q", ErrValidation, m.Email)
		}
	}
	if m.PasswordHash == "" {
		return fmt.Errorf("%w: password hash is required", ErrValidation)
	}
	return nil
}

// RankEntry is one row of the ranking board.
type RankEntry struct {
	Nickname  string  `json:"nickname"`
	RankScore float64 `json:"rankScore"`
}
