package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

type createPostRequest struct {
	Title    string `json:"title" example:"Hello"`
	Abstract string `json:"abstract" example:"short summary"`
	Content  string `json:"content" example:"..."`
	Category string `json:"category" example:"dynamics" enums:"dynamics,study-notes,daily-findings"`
}

// updatePostRequest 缺省字段保持不变
type updatePostRequest struct {
	Title    *string `json:"title"`
	Abstract *string `json:"abstract"`
	Content  *string `json:"content"`
	Category *string `json:"category" enums:"dynamics,study-notes,daily-findings"`
}

func (r updatePostRequest) patch() model.PostPatch {
	p := model.PostPatch{Title: r.Title, Abstract: r.Abstract, Content: r.Content}
	if r.Category != nil {
		c := model.Category(*r.Category)
		p.Category = &c
	}
	return p
}

// ListPosts 全部文章
// @Summary 文章列表（按创建时间倒序）
// @Tags 文章
// @Produce json
// @Success 200 {array} model.Post
// @Router /posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, posts)
}

// ListPostsByCategory 按分类查询
// @Summary 分类文章列表
// @Tags 文章
// @Produce json
// @Param category path string true "分类" Enums(dynamics, study-notes, daily-findings)
// @Success 200 {array} model.Post
// @Router /posts/category/{category} [get]
func (h *Handler) ListPostsByCategory(c *gin.Context) {
	posts, err := h.postService.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, posts)
}

// GetPost 文章详情
// @Summary 文章详情
// @Tags 文章
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} response.ErrorBody
// @Router /posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, service.ErrPostNotFound.Error())
		return
	}
	p, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, p)
}

// CreatePost 发布文章
// @Summary 发布文章
// @Tags 文章
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "文章内容"
// @Success 201 {object} model.Post
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	p, err := h.postService.Create(c.Request.Context(), service.CreatePostInput{
		Title:    req.Title,
		Abstract: req.Abstract,
		Content:  req.Content,
		Category: req.Category,
		AuthorID: claims.UserID,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, p)
}

// UpdatePost 部分更新文章
// @Summary 更新文章
// @Description 只修改请求体中出现的字段；没有任何字段时按文章不存在处理
// @Tags 文章
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "文章ID"
// @Param request body updatePostRequest true "待更新字段"
// @Success 200 {object} model.Post
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, service.ErrPostNotFound.Error())
		return
	}
	updated, err := h.postService.Update(c.Request.Context(), id, req.patch())
	if err != nil {
		handleError(c, err)
		return
	}
	if !updated {
		response.NotFound(c, service.ErrPostNotFound.Error())
		return
	}
	p, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, p)
}

// DeletePost 删除文章
// @Summary 删除文章
// @Tags 文章
// @Produce json
// @Security BearerAuth
// @Param id path int true "文章ID"
// @Success 200 {object} response.MessageBody
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, service.ErrPostNotFound.Error())
		return
	}
	deleted, err := h.postService.Delete(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c, service.ErrPostNotFound.Error())
		return
	}
	response.Message(c, "Post deleted successfully")
}
