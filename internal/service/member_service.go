package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetboard/meetboard-api/internal/domain"
	"github.com/meetboard/meetboard-api/internal/repository"
)

const tokenIssuer = "meetboard-api"

type MemberService struct {
	members   repository.MemberRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

type RegisterInput struct {
	Username string
	Password string
	Nickname string
	Email    string
}

func NewMemberService(
	members repository.MemberRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	logger *zap.Logger,
) (*MemberService, error) {
	if jwtSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MemberService{
		members:   members,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}, nil
}

func (s *MemberService) Register(ctx context.Context, input RegisterInput) (*domain.Member, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if len(input.Password) < domain.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, domain.MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	member := &domain.Member{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Nickname:     input.Nickname,
		Email:        input.Email,
		PasswordHash: string(hash),
		RankScore:    domain.InitialRankScore,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := member.Validate(); err != nil {
		return nil, err
	}

	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("member registered", zap.String("username", member.Username))

	return member, nil
}

// VerifyUsernameDuplication reports a conflict when the username is
// already taken.
func (s *MemberService) VerifyUsernameDuplication(ctx context.Context, username string) error {
	exists, err := s.members.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: username %q is already taken", domain.ErrConflict, username)
	}
	return nil
}

// VerifyNicknameDuplication reports a conflict when the nickname is
// already taken.
func (s *MemberService) VerifyNicknameDuplication(ctx context.Context, nickname string) error {
	exists, err := s.members.ExistsByNickname(ctx, nickname)
	if err != nil {
		return fmt.Errorf("failed to check nickname: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: nickname %q is already taken", domain.ErrConflict, nickname)
	}
	return nil
}

// Login verifies credentials and returns a signed bearer token.
func (s *MemberService) Login(ctx context.Context, username, password string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	member, err := s.members.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return "", fmt.Errorf("failed to load member: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   member.Username,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses a bearer token and returns the subject username.
func (s *MemberService) VerifyToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}

	return claims.Subject, nil
}

func (s *MemberService) GetProfile(ctx context.Context, username string) (*domain.Member, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	return s.members.GetByUsername(ctx, username)
}
