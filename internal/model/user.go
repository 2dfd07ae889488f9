package model

import "time"

// User 后台账号，持有有效 token 即视为管理员
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }
