package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
)

// CreatePostInput 新建文章参数，AuthorID 来自已认证的 token
type CreatePostInput struct {
	Title    string `validate:"required"`
	Abstract string
	Content  string `validate:"required"`
	Category string `validate:"required"`
	AuthorID uint   `validate:"required"`
}

type categoryInput struct {
	Category string `validate:"post_category"`
}

// PostService 文章读写
type PostService struct {
	posts repository.PostRepository
}

func NewPostService(posts repository.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// Create 校验必填字段和分类后落库
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*model.Post, error) {
	if err := validate.Struct(in); err != nil {
		return nil, ErrMissingPostFields
	}
	if !model.Category(in.Category).Valid() {
		return nil, ErrInvalidCategory
	}

	p := &model.Post{
		Title:    in.Title,
		Abstract: in.Abstract,
		Content:  in.Content,
		Category: model.Category(in.Category),
		AuthorID: in.AuthorID,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) List(ctx context.Context) ([]*model.Post, error) {
	return s.posts.FindAll(ctx)
}

// ListByCategory 未知分类返回空列表
func (s *PostService) ListByCategory(ctx context.Context, category string) ([]*model.Post, error) {
	if !model.Category(category).Valid() {
		return []*model.Post{}, nil
	}
	return s.posts.FindByCategory(ctx, model.Category(category))
}

func (s *PostService) Get(ctx context.Context, id uint) (*model.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	return p, err
}

// Update 应用部分更新，返回是否有行被修改。
// 空 patch 与文章不存在都返回 false，调用方无需区分。
func (s *PostService) Update(ctx context.Context, id uint, patch model.PostPatch) (bool, error) {
	if patch.Category != nil {
		if err := validate.Struct(categoryInput{Category: string(*patch.Category)}); err != nil {
			return false, ErrInvalidCategory
		}
	}
	return s.posts.Update(ctx, id, patch)
}

// Delete 物理删除，返回是否有行被删除
func (s *PostService) Delete(ctx context.Context, id uint) (bool, error) {
	return s.posts.Delete(ctx, id)
}
