package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN string `env:"DATABASE_DSN,required=true"`
	RedisURL    string `env:"REDIS_URL,required=true"`
	JWTSecret   string `env:"JWT_SECRET,required=true"`

	APIPort  int    `env:"API_PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	TokenTTLMinutes      int `env:"TOKEN_TTL_MINUTES,default=1440"`
	SSETimeoutMinutes    int `env:"SSE_TIMEOUT_MINUTES,default=60"`
	SubscribeLimitPerSec int `env:"SUBSCRIBE_LIMIT_PER_SEC,default=20"`
	LoginLimitPerSec     int `env:"LOGIN_LIMIT_PER_SEC,default=10"`

	RankingRefreshSec  int `env:"RANKING_REFRESH_SEC,default=300"`
	RankingCacheTTLSec int `env:"RANKING_CACHE_TTL_SEC,default=600"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// TokenTTL is the lifetime of issued session tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// SSETimeout is the lifetime of one notification stream connection.
func (c *Config) SSETimeout() time.Duration {
	return time.Duration(c.SSETimeoutMinutes) * time.Minute
}

// RankingRefreshInterval is how often the ranking scheduler recomputes.
func (c *Config) RankingRefreshInterval() time.Duration {
	return time.Duration(c.RankingRefreshSec) * time.Second
}

// RankingCacheTTL is the redis TTL of the cached top ranking.
func (c *Config) RankingCacheTTL() time.Duration {
	return time.Duration(c.RankingCacheTTLSec) * time.Second
}
