package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry 违反唯一约束
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// isDuplicateEntry 兼容未开启 TranslateError 的连接
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
