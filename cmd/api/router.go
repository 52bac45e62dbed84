package main

import (
	"github.com/gin-gonic/gin"

	"serialfic-backend/internal/shared/middleware"
	"serialfic-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.AllowedOrigins),
		c.Sessions.LoadAndSave(),
		middleware.ErrorHandler(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler(c.Config.App.Version, c.DB, c.Cache))

		setupUserRoutes(v1, c)
		setupSaveRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupChapterRoutes(v1, c)
		setupCommentRoutes(v1, c)
	}

	return router
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.RequireAuth(c.Sessions)
	limited := c.AuthLimiter.Middleware()

	users := v1.Group("/user")
	{
		users.POST("/signup", limited, c.UserHandler.Signup)
		users.POST("/login", limited, c.UserHandler.Login)
		users.POST("/logout", auth, c.UserHandler.Logout)
		users.POST("/delete", auth, c.UserHandler.Delete)
		users.POST("/password", auth, c.UserHandler.ChangePassword)
		users.PUT("/profile", auth, c.UserHandler.UpdateProfile)

		users.GET("", c.UserHandler.ListUsers)
		users.GET("/:username", c.UserHandler.GetUser)
		users.GET("/:username/book", middleware.OptionalAuth(c.Sessions), c.BookHandler.ListByUser)
	}
}

// ========================================
// SAVED BOOK ROUTES
// ========================================
func setupSaveRoutes(v1 *gin.RouterGroup, c *container.Container) {
	saves := v1.Group("/user/save")
	saves.Use(middleware.RequireAuth(c.Sessions))
	{
		saves.GET("", c.SaveHandler.List)
		saves.POST("/:bid", c.SaveHandler.Save)
		saves.GET("/:bid", c.SaveHandler.Get)
		saves.PUT("/:bid", c.SaveHandler.Update)
		saves.DELETE("/:bid", c.SaveHandler.Delete)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.RequireAuth(c.Sessions)

	books := v1.Group("/book")
	{
		books.GET("", c.BookHandler.List)
		books.POST("", auth, c.BookHandler.Create)

		// Tag registry
		books.GET("/tag", c.TagHandler.List)
		books.POST("/tag", auth, c.TagHandler.Create)

		books.GET("/:bid", middleware.OptionalAuth(c.Sessions), c.BookHandler.Get)
		books.PUT("/:bid", auth, c.BookHandler.Update)
		books.DELETE("/:bid", auth, c.BookHandler.Delete)

		books.POST("/:bid/publish", auth, c.BookHandler.Publish)
		books.DELETE("/:bid/publish", auth, c.BookHandler.Unpublish)

		books.POST("/:bid/tag", auth, c.BookHandler.AddTag)
		books.DELETE("/:bid/tag", auth, c.BookHandler.RemoveTag)
	}
}

// ========================================
// CHAPTER ROUTES
// ========================================
func setupChapterRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.RequireAuth(c.Sessions)

	chapters := v1.Group("/book/:bid/chapter")
	chapters.Use(middleware.OptionalAuth(c.Sessions))
	{
		chapters.GET("", c.ChapterHandler.List)
		chapters.POST("", auth, c.ChapterHandler.Create)
		chapters.GET("/last", auth, c.ChapterHandler.LastRead)

		chapters.GET("/:number", c.ChapterHandler.Get)
		chapters.PUT("/:number", auth, c.ChapterHandler.Update)
		chapters.DELETE("/:number", auth, c.ChapterHandler.Delete)

		chapters.POST("/:number/publish", auth, c.ChapterHandler.Publish)
		chapters.DELETE("/:number/publish", auth, c.ChapterHandler.Unpublish)

		chapters.POST("/:number/like", auth, c.ChapterHandler.Like)
		chapters.DELETE("/:number/like", auth, c.ChapterHandler.Unlike)
	}
}

// ========================================
// COMMENT ROUTES
// ========================================
func setupCommentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.RequireAuth(c.Sessions)

	comments := v1.Group("/book/:bid/chapter/:number/comment")
	comments.Use(middleware.OptionalAuth(c.Sessions))
	{
		comments.GET("", c.CommentHandler.List)
		comments.POST("", auth, c.CommentHandler.Create)

		comments.GET("/:cid", c.CommentHandler.Replies)
		comments.PUT("/:cid", auth, c.CommentHandler.Update)
		comments.DELETE("/:cid", auth, c.CommentHandler.Delete)

		comments.POST("/:cid/like", auth, c.CommentHandler.Like)
		comments.DELETE("/:cid/like", auth, c.CommentHandler.Unlike)
	}
}
