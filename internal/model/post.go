package model

import "time"

// Category 文章分类，取值固定
type Category string

const (
	CategoryDynamics      Category = "dynamics"
	CategoryStudyNotes    Category = "study-notes"
	CategoryDailyFindings Category = "daily-findings"
)

// Categories 全部合法分类
var Categories = []Category{CategoryDynamics, CategoryStudyNotes, CategoryDailyFindings}

// Valid 判断是否为合法分类
func (c Category) Valid() bool {
	switch c {
	case CategoryDynamics, CategoryStudyNotes, CategoryDailyFindings:
		return true
	}
	return false
}

// Post 博客文章
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"type:text;not null"`
	Abstract  string    `json:"abstract" gorm:"type:text;not null;default:''"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Category  Category  `json:"category" gorm:"type:varchar(32);not null;index:idx_post_category_created"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index:idx_post_author"`
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_post_category_created"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

// PostPatch 部分更新，nil 字段表示不修改
type PostPatch struct {
	Title    *string
	Abstract *string
	Content  *string
	Category *Category
}

// Empty 没有任何待更新字段
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Abstract == nil && p.Content == nil && p.Category == nil
}
