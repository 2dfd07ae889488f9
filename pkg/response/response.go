package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/pkg/logger"
)

// ErrorBody 所有失败响应的结构
type ErrorBody struct {
	Error string `json:"error" example:"Post not found"`
}

// MessageBody 仅包含提示信息的成功响应
type MessageBody struct {
	Message string `json:"message" example:"Post deleted successfully"`
}

// InternalErrorMessage 对外统一的 500 文案
const InternalErrorMessage = "Internal server error"

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageBody{Message: msg})
}

// Error 以 {"error": msg} 响应并终止后续 handler
func Error(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, ErrorBody{Error: msg})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }

func Unauthorized(c *gin.Context, msg string) { Error(c, http.StatusUnauthorized, msg) }

func NotFound(c *gin.Context, msg string) { Error(c, http.StatusNotFound, msg) }

func TooManyRequests(c *gin.Context) { Error(c, http.StatusTooManyRequests, "Too many requests") }

// InternalError 记录并上报原始错误，对调用方只返回通用文案
func InternalError(c *gin.Context, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
	}
	if rid := c.GetString("request_id"); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	logger.Error("internal error", fields...)

	if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, InternalErrorMessage)
}
