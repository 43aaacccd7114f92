package router

import (
	"github.com/conduit/internal/handler"
	"github.com/conduit/internal/logging"
	"github.com/conduit/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, log logrus.FieldLogger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if log != nil {
		r.Use(logging.Middleware(log))
	}
	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.GET("/check_health", api.HealthCheck)

	routes := r.Group("/api")
	routes.GET("/check_health", api.HealthCheck)

	optional := routes.Group("")
	optional.Use(api.OptionalAuth())
	{
		optional.GET("/profiles/:username", api.GetProfile)
		optional.GET("/articles", api.ListArticles)
		optional.GET("/articles/:slug", api.GetArticle)
		optional.GET("/articles/:slug/comments", api.ListComments)
		optional.GET("/articles/:slug/comments/:id", api.GetComment)
	}

	routes.POST("/users/login", api.Login)
	routes.POST("/users", api.Register)
	routes.GET("/tags", api.GetTags)
	routes.GET("/slugs", api.ListSlugs)

	// 需要认证的路由
	auth := routes.Group("")
	auth.Use(api.RequireAuth())
	{
		auth.GET("/user", api.CurrentUser)
		auth.PUT("/user", api.UpdateUser)

		auth.POST("/profiles/:username/follow", api.FollowUser)
		auth.DELETE("/profiles/:username/follow", api.UnfollowUser)

		auth.GET("/articles/feed", api.FeedArticles)
		auth.POST("/articles", api.CreateArticle)
		auth.PUT("/articles/:slug", api.UpdateArticle)
		auth.DELETE("/articles/:slug", api.DeleteArticle)
		auth.POST("/articles/:slug/favorite", api.FavoriteArticle)
		auth.DELETE("/articles/:slug/favorite", api.UnfavoriteArticle)

		auth.POST("/articles/:slug/comments", api.AddComment)
		auth.DELETE("/articles/:slug/comments/:id", api.DeleteComment)
	}

	return r
}
