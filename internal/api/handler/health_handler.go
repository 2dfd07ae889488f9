package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/pkg/response"
)

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status" example:"OK"`
	Message string `json:"message" example:"Server is running"`
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, HealthResponse{Status: "OK", Message: "Server is running"})
}
