package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/meetboard/meetboard-api/internal/domain"
	"github.com/meetboard/meetboard-api/internal/repository"
)

const rankingSize = 3

// RankingCache is the read-through cache in front of the ranking query.
type RankingCache interface {
	Get(ctx context.Context) ([]domain.RankEntry, bool, error)
	Set(ctx context.Context, entries []domain.RankEntry) error
}

type RankingService struct {
	members repository.MemberRepository
	cache   RankingCache
	logger  *zap.Logger
}

func NewRankingService(
	members repository.MemberRepository,
	cache RankingCache,
	logger *zap.Logger,
) (*RankingService, error) {
	if cache == nil {
		return nil, fmt.Errorf("ranking cache is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RankingService{
		members: members,
		cache:   cache,
		logger:  logger,
	}, nil
}

// Top returns the current ranking board, serving from cache when
// possible. Cache errors fall back to the database.
func (s *RankingService) Top(ctx context.Context) ([]domain.RankEntry, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	entries, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("ranking cache read failed", zap.Error(err))
	}
	if ok {
		return entries, nil
	}

	return s.Refresh(ctx)
}

// Refresh recomputes the ranking from the database and rewrites the
// cache.
func (s *RankingService) Refresh(ctx context.Context) ([]domain.RankEntry, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	entries, err := s.members.ListTopRanked(ctx, rankingSize)
	if err != nil {
		return nil, fmt.Errorf("failed to compute ranking: %w", err)
	}

	if err := s.cache.Set(ctx, entries); err != nil {
		s.logger.Warn("ranking cache write failed", zap.Error(err))
	}

	return entries, nil
}

// ResetMonth zeroes every member's monthly score and refreshes the
// cache, typically at the start of a new month.
func (s *RankingService) ResetMonth(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.members.ResetMonthlyScores(ctx); err != nil {
		return fmt.Errorf("failed to reset monthly scores: %w", err)
	}

	if _, err := s.Refresh(ctx); err != nil {
		return err
	}

	return nil
}
