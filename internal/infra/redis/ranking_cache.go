package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/meetboard/meetboard-api/internal/domain"
)

const rankingKey = "rankings:top"

// RankingCache stores the current top-ranked members as a JSON blob.
type RankingCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewRankingCache(client *goredis.Client, ttl time.Duration) (*RankingCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &RankingCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// Get returns the cached ranking, or (nil, false, nil) on a cache miss.
func (c *RankingCache) Get(ctx context.Context) ([]domain.RankEntry, bool, error) {
	raw, err := c.client.Get(ctx, rankingKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read ranking cache: %w", err)
	}

	var entries []domain.RankEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to decode ranking cache: %w", err)
	}

	return entries, true, nil
}

func (c *RankingCache) Set(ctx context.Context, entries []domain.RankEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode ranking cache: %w", err)
	}

	if err := c.client.Set(ctx, rankingKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write ranking cache: %w", err)
	}

	return nil
}
