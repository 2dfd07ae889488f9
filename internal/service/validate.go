package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/gin-blog/internal/model"
)

// validate 包内共享，validator.Validate 并发安全并缓存结构体元信息
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("post_category", func(fl validator.FieldLevel) bool {
		return model.Category(fl.Field().String()).Valid()
	})
	// bcrypt 只接受 72 字节以内的口令，min/max 按字符计数不适用
	_ = v.RegisterValidation("bcrypt_max", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	return v
}

// failedTag 返回第一个未通过的校验规则
func failedTag(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return errs[0].Tag()
	}
	return ""
}
