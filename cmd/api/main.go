package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/meetboard/meetboard-api/internal/config"
	"github.com/meetboard/meetboard-api/internal/handler"
	"github.com/meetboard/meetboard-api/internal/infra/postgresql"
	"github.com/meetboard/meetboard-api/internal/infra/postgresql/migrations"
	infraredis "github.com/meetboard/meetboard-api/internal/infra/redis"
	"github.com/meetboard/meetboard-api/internal/observability"
	"github.com/meetboard/meetboard-api/internal/repository"
	"github.com/meetboard/meetboard-api/internal/service"
	"github.com/meetboard/meetboard-api/internal/sse"
	"github.com/meetboard/meetboard-api/internal/transport"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	members := repository.NewGormMemberRepo(db)
	articles := repository.NewGormArticleRepo(db)
	participations := repository.NewGormParticipationRepo(db)
	comments := repository.NewGormCommentRepo(db)
	notifications := repository.NewGormNotificationRepo(db)

	metrics := observability.NewMetrics()
	registry := sse.NewRegistry(cfg.SSETimeout(), logger)
	metrics.RegisterSSEActiveGauge(registry.ActiveConnections)

	subscribeLimiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.SubscribeLimitPerSec)
	if err != nil {
		logger.Fatal("subscribe rate limiter init failed", zap.Error(err))
	}
	loginLimiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.LoginLimitPerSec)
	if err != nil {
		logger.Fatal("login rate limiter init failed", zap.Error(err))
	}

	rankingCache, err := infraredis.NewRankingCache(rdb, cfg.RankingCacheTTL())
	if err != nil {
		logger.Fatal("ranking cache init failed", zap.Error(err))
	}

	notificationService, err := service.NewNotificationService(
		members, articles, participations, comments, notifications,
		registry, service.NewMessageFormatter(), metrics, logger,
	)
	if err != nil {
		logger.Fatal("notification service init failed", zap.Error(err))
	}

	memberService, err := service.NewMemberService(members, cfg.JWTSecret, cfg.TokenTTL(), logger)
	if err != nil {
		logger.Fatal("member service init failed", zap.Error(err))
	}

	articleService, err := service.NewArticleService(articles, members, notificationService, logger)
	if err != nil {
		logger.Fatal("article service init failed", zap.Error(err))
	}

	participationService, err := service.NewParticipationService(participations, articles, members, notificationService, logger)
	if err != nil {
		logger.Fatal("participation service init failed", zap.Error(err))
	}

	commentService, err := service.NewCommentService(comments, articles, members, notificationService, logger)
	if err != nil {
		logger.Fatal("comment service init failed", zap.Error(err))
	}

	rankingService, err := service.NewRankingService(members, rankingCache, logger)
	if err != nil {
		logger.Fatal("ranking service init failed", zap.Error(err))
	}

	rankingScheduler, err := service.NewRankingScheduler(rankingService, cfg.RankingRefreshInterval(), logger)
	if err != nil {
		logger.Fatal("ranking scheduler init failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(logger),
	})
	app.Use(metrics.HTTPMiddleware())

	auth := handler.AuthMiddleware(memberService)

	if err := handler.RegisterMemberRoutes(app, auth, memberService, loginLimiter); err != nil {
		logger.Fatal("member routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterArticleRoutes(app, auth, articleService); err != nil {
		logger.Fatal("article routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterParticipationRoutes(app, auth, participationService); err != nil {
		logger.Fatal("participation routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterCommentRoutes(app, auth, commentService); err != nil {
		logger.Fatal("comment routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterNotificationRoutes(app, auth, notificationService, subscribeLimiter, logger); err != nil {
		logger.Fatal("notification routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterRankingRoutes(app, rankingService); err != nil {
		logger.Fatal("ranking routes registration failed", zap.Error(err))
	}
	handler.RegisterHealthRoutes(app, sqlDB, rdb)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go func() {
		if err := rankingScheduler.Start(schedulerCtx); err != nil {
			logger.Error("ranking scheduler stopped", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("meetboard api started", zap.Int("port", cfg.APIPort))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	stopScheduler()

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
