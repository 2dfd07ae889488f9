package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

type credentialsRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"admin123"`
}

// UserInfo 对外暴露的账号信息
type UserInfo struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"admin"`
}

// AuthResponse 注册/登录成功响应
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

func userInfo(u *model.User) UserInfo { return UserInfo{ID: u.ID, Username: u.Username} }

// Register 注册账号
// @Summary 注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "账号密码"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	u, token, err := h.userService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, AuthResponse{Token: token, User: userInfo(u)})
}

// Login 登录
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "账号密码"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	u, token, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, AuthResponse{Token: token, User: userInfo(u)})
}

// Me 当前登录账号
// @Summary 当前账号
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserInfo
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	u, err := h.userService.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, userInfo(u))
}
