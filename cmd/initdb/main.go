package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/database"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

// 建表并写入默认管理员账号，可重复执行
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Fatal("database migrate failed", zap.Error(err))
	}

	tokens, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expire, cfg.JWT.Issuer)
	if err != nil {
		logger.Fatal("token service init failed", zap.Error(err))
	}
	users := service.NewUserService(repository.NewUserRepository(db), tokens)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	u, created, err := users.EnsureUser(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
	if err != nil {
		logger.Fatal("seed admin failed", zap.String("username", cfg.Seed.AdminUsername), zap.Error(err))
	}
	if created {
		logger.Info("admin user created", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	} else {
		logger.Info("admin user already exists", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	}
	logger.Info("database initialized", zap.String("driver", cfg.Database.Driver))
}
