package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

// Handler 聚合所有 HTTP 处理函数
type Handler struct {
	userService *service.UserService
	postService *service.PostService
}

func NewHandler(userService *service.UserService, postService *service.PostService) *Handler {
	return &Handler{userService: userService, postService: postService}
}

// handleError 按错误分类映射状态码，未分类的错误按 500 处理
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// parseID 非法 id 视为不存在的记录
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
