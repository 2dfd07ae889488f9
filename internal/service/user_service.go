package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

const (
	// PasswordCost bcrypt 工作因子
	PasswordCost = 10
	// MaxPasswordBytes bcrypt 的输入上限
	MaxPasswordBytes = 72
)

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required,min=6,bcrypt_max"`
}

type loginCredentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// UserService 账号与登录
type UserService struct {
	users  repository.UserRepository
	tokens *TokenService
}

func NewUserService(users repository.UserRepository, tokens *TokenService) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Create 创建账号并保存 bcrypt 哈希，用户名已存在时返回 ErrUsernameTaken
func (s *UserService) Create(ctx context.Context, username, password string) (*model.User, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发注册同名账号时由唯一索引兜底
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// EnsureUser 账号不存在时创建，已存在则原样返回，供初始化脚本重复执行
func (s *UserService) EnsureUser(ctx context.Context, username, password string) (*model.User, bool, error) {
	u, err := s.FindByUsername(ctx, username)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}
	u, err = s.Create(ctx, username, password)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// FindByUsername 精确匹配，不存在时返回 ErrUserNotFound
func (s *UserService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// FindByID 不存在时返回 ErrUserNotFound
func (s *UserService) FindByID(ctx context.Context, id uint) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// Register 校验输入、创建账号并签发 token
func (s *UserService) Register(ctx context.Context, username, password string) (*model.User, string, error) {
	if err := validate.Struct(credentials{Username: username, Password: password}); err != nil {
		switch failedTag(err) {
		case "min":
			return nil, "", ErrPasswordTooShort
		case "bcrypt_max":
			return nil, "", ErrPasswordTooLong
		}
		return nil, "", ErrMissingCredentials
	}

	u, err := s.Create(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			logger.Warn("registration rejected: username taken", zap.String("username", username))
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, "", err
	}
	logger.Info("user registered", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	return u, token, nil
}

// Login 校验口令并签发 token；用户不存在与口令错误返回同一个错误
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	if err := validate.Struct(loginCredentials{Username: username, Password: password}); err != nil {
		return nil, "", ErrMissingCredentials
	}

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warn("login failed: unknown user", zap.String("username", username))
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !VerifyPassword(password, u.PasswordHash) {
		logger.Warn("login failed: wrong password", zap.String("username", username))
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// HashPassword bcrypt 加盐哈希
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// VerifyPassword 比较明文与哈希，由 bcrypt 保证比较耗时与内容无关
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
