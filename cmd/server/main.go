// @title           Gin Blog API
// @version         1.0
// @description     极简博客后端：账号注册登录与文章增删改查
// @BasePath        /
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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/api/handler"
	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/internal/api/router"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/database"
	"github.com/d60-Lab/gin-blog/pkg/logger"
	"github.com/d60-Lab/gin-blog/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger 尚未初始化
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("database migrate failed", zap.Error(err))
	}

	tokens, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expire, cfg.JWT.Issuer)
	if err != nil {
		logger.Fatal("token service init failed", zap.Error(err))
	}
	userSvc := service.NewUserService(repository.NewUserRepository(db), tokens)
	postSvc := service.NewPostService(repository.NewPostRepository(db))

	limiter, rdb := newLimiter(cfg)

	h := handler.NewHandler(userSvc, postSvc)
	engine := router.Setup(cfg, h, tokens, limiter)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr), zap.String("driver", cfg.Database.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		logger.Error("database close", zap.Error(err))
	}
}

// newLimiter 配置了 redis 且可连通时使用共享计数，否则退化为进程内令牌桶
func newLimiter(cfg *config.Config) (middleware.Limiter, *redis.Client) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}
	if cfg.Redis.Addr == "" {
		return middleware.NewLocalLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using local rate limiter", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = rdb.Close()
		return middleware.NewLocalLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window), nil
	}
	return middleware.NewRedisLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window), rdb
}
