package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/gin-blog/docs"
	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/api/handler"
	"github.com/d60-Lab/gin-blog/internal/api/middleware"
)

// Setup 组装中间件和路由。limiter 为 nil 时不对认证接口限流
func Setup(cfg *config.Config, h *handler.Handler, verifier middleware.TokenVerifier, limiter middleware.Limiter) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		gzip.Gzip(gzip.DefaultCompression),
	)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 同一套接口同时挂在根路径和 /api 下
	register(r.Group(""), h, verifier, limiter)
	register(r.Group("/api"), h, verifier, limiter)

	return r
}

func register(rg *gin.RouterGroup, h *handler.Handler, verifier middleware.TokenVerifier, limiter middleware.Limiter) {
	rg.GET("/health", h.Health)

	auth := rg.Group("/auth")
	{
		public := auth.Group("")
		if limiter != nil {
			public.Use(middleware.RateLimit(limiter))
		}
		public.POST("/register", h.Register)
		public.POST("/login", h.Login)
		auth.GET("/me", middleware.Auth(verifier), h.Me)
	}

	posts := rg.Group("/posts")
	{
		posts.GET("", h.ListPosts)
		posts.GET("/category/:category", h.ListPostsByCategory)
		posts.GET("/:id", h.GetPost)

		authed := posts.Group("", middleware.Auth(verifier))
		authed.POST("", h.CreatePost)
		authed.PUT("/:id", h.UpdatePost)
		authed.DELETE("/:id", h.DeletePost)
	}
}
