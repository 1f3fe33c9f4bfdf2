// @title Sleep Social API
// @version 1.0
// @description Sleep tracking with a social following feed.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/sleep-social/config"
	"github.com/d60-Lab/sleep-social/internal/api/handler"
	"github.com/d60-Lab/sleep-social/internal/api/router"
	"github.com/d60-Lab/sleep-social/internal/auth"
	"github.com/d60-Lab/sleep-social/internal/cache"
	"github.com/d60-Lab/sleep-social/internal/repository"
	"github.com/d60-Lab/sleep-social/internal/service"
	"github.com/d60-Lab/sleep-social/pkg/database"
	"github.com/d60-Lab/sleep-social/pkg/logger"
	"github.com/d60-Lab/sleep-social/pkg/metrics"
	"github.com/d60-Lab/sleep-social/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			SampleRate:       cfg.Sentry.SampleRate,
			AttachStacktrace: true,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		// 缓存只是加速层，连不上就按无缓存运行
		logger.Warn("redis unavailable, feed cache disabled", zap.Error(err))
		redisClient = nil
	}

	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)
	records := repository.NewSleepRecordRepository(db)

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	authSvc := service.NewAuthService(users, tokens, bcrypt.DefaultCost)
	feedMemo := cache.NewMemo[[]service.FeedEntry](redisClient, cfg.Cache.Prefix+":feed", cfg.Cache.FeedTTL)
	if cfg.Metrics.Enabled {
		if err := metrics.RegisterCache(prometheus.DefaultRegisterer, "feed", feedMemo); err != nil {
			logger.Warn("register cache metrics failed", zap.Error(err))
		}
	}

	h := handler.New(
		authSvc,
		service.NewSleepService(records),
		service.NewRelationshipService(users, follows),
		service.NewFeedService(follows, records, feedMemo),
		db,
	)
	engine := router.Setup(cfg, h, authSvc)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("db", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown failed", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
