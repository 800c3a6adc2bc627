package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultRankingRefreshInterval = 5 * time.Minute

// RankingScheduler periodically refreshes the ranking cache and resets
// monthly scores when the month rolls over.
type RankingScheduler struct {
	rankings *RankingService
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewRankingScheduler(
	rankings *RankingService,
	interval time.Duration,
	logger *zap.Logger,
) (*RankingScheduler, error) {
	if rankings == nil {
		return nil, fmt.Errorf("ranking service is required")
	}
	if interval <= 0 {
		interval = defaultRankingRefreshInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RankingScheduler{
		rankings: rankings,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}, nil
}

func (s *RankingScheduler) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Warm the cache before the first ticker edge.
	if _, err := s.rankings.Refresh(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("initial ranking refresh failed", zap.Error(err))
	}

	lastMonth := s.now().UTC().Month()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if month := s.now().UTC().Month(); month != lastMonth {
				lastMonth = month
				if err := s.rankings.ResetMonth(ctx); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					s.logger.Error("monthly score reset failed", zap.Error(err))
				}
				continue
			}

			if _, err := s.rankings.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.logger.Error("ranking refresh failed", zap.Error(err))
			}
		}
	}
}
