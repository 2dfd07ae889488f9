package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-blog/internal/model"
)

// PostRepository 文章存储
type PostRepository interface {
	// Create 插入文章，回填 ID 与时间戳
	Create(ctx context.Context, post *model.Post) error

	// FindAll 全部文章，按创建时间倒序
	FindAll(ctx context.Context) ([]*model.Post, error)

	// FindByCategory 指定分类的文章，按创建时间倒序
	FindByCategory(ctx context.Context, category model.Category) ([]*model.Post, error)

	FindByID(ctx context.Context, id uint) (*model.Post, error)

	// Update 只写入 patch 中非 nil 的字段；patch 为空时不访问数据库并返回 false
	Update(ctx context.Context, id uint, patch model.PostPatch) (bool, error)

	// Delete 物理删除，返回是否有行被删除
	Delete(ctx context.Context, id uint) (bool, error)
}

type postRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, now: time.Now}
}

// newest first；同一时刻写入的记录按 id 倒序
const newestFirst = "created_at DESC, id DESC"

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	now := r.now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *postRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) FindByCategory(ctx context.Context, category model.Category) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order(newestFirst).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts by category %q: %w", category, err)
	}
	return posts, nil
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return &p, nil
}

func (r *postRepository) Update(ctx context.Context, id uint, patch model.PostPatch) (bool, error) {
	if patch.Empty() {
		return false, nil
	}
	fields := make(map[string]any, 5)
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Abstract != nil {
		fields["abstract"] = *patch.Abstract
	}
	if patch.Content != nil {
		fields["content"] = *patch.Content
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	fields["updated_at"] = r.now()

	res := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return false, fmt.Errorf("update post %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Post{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete post %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
