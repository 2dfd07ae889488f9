package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/database"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(&config.Config{Database: config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTokens(t *testing.T) *service.TokenService {
	t.Helper()
	tokens, err := service.NewTokenService("test-secret", time.Hour, "test")
	require.NoError(t, err)
	return tokens
}

func setupUserService(t *testing.T) (*service.UserService, *service.TokenService, *gorm.DB) {
	db := setupDB(t)
	tokens := newTokens(t)
	return service.NewUserService(repository.NewUserRepository(db), tokens), tokens, db
}
