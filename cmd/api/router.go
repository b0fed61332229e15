package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/pkg/container"
	"bookreview-backend/web"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupReviewRoutes(v1, c)
		setupUserRoutes(v1, c)
	}

	setupWebRoutes(router, c)

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/:id", c.BookHandler.GetBook)
	}

	adminBooks := v1.Group("/books")
	adminBooks.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		adminBooks.POST("", c.BookHandler.CreateBook)
		adminBooks.PUT("/:id", c.BookHandler.UpdateBook)
		adminBooks.DELETE("/:id", c.BookHandler.DeleteBook)
		adminBooks.POST("/:id/cover", c.BookHandler.UploadCover)
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reviews := v1.Group("/reviews")
	{
		reviews.GET("", c.ReviewHandler.ListReviews)
	}

	userReviews := v1.Group("/reviews")
	userReviews.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		userReviews.POST("", c.ReviewHandler.CreateReview)
		userReviews.PUT("/:id", c.ReviewHandler.UpdateReview)
		userReviews.DELETE("/:id", c.ReviewHandler.DeleteReview)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	{
		users.GET("/:id", c.UserHandler.GetProfile)
		users.GET("/:id/reviews", c.UserHandler.GetUserReviews)
	}

	selfUsers := v1.Group("/users")
	selfUsers.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		selfUsers.PUT("/:id", c.UserHandler.UpdateProfile)
	}
}

// ========================================
// WEB ROUTES (server-rendered pages)
// ========================================
func setupWebRoutes(router *gin.Engine, c *container.Container) {
	tmpl, err := web.Templates()
	if err != nil {
		log.Fatalf("❌ Failed to parse templates: %v", err)
	}
	router.SetHTMLTemplate(tmpl)

	static, err := web.Static()
	if err != nil {
		log.Fatalf("❌ Failed to load static assets: %v", err)
	}
	router.StaticFS("/static", http.FS(static))

	pages := web.NewPageHandler(c.BookService, c.ReviewService, c.UserService)
	router.GET("/", pages.Index)
	router.GET("/books", pages.Books)
	router.GET("/books/:id", pages.BookDetail)
	router.GET("/users/:id", pages.Profile)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check mongo
		dbStatus := "ok"
		if appCtx.DB == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis; cache being down only degrades, never fails
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
