package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/config"
	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/service"
	"github.com/legal-portal-api/internal/validation"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	validator := validation.NewValidator()

	// Handlers
	authHandler := NewAuthHandler(services, cfg, validator, log)
	contentHandler := NewContentHandler(services, cfg, validator, log)
	commentHandler := NewCommentHandler(services, cfg, validator, log)
	twoFactorHandler := NewTwoFactorHandler(services, cfg, validator, log)
	searchHandler := NewSearchHandler(services, cfg, validator, log)
	adminHandler := NewAdminHandler(services, cfg, log)

	// Health check and basic counts
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// API v1
	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authMiddleware(services.Auth), authHandler.Logout)
			auth.GET("/me", authMiddleware(services.Auth), authHandler.Me)
		}

		// Public content, locale-resolved. Staff see inactive entities
		// and moderation fields when authenticated.
		public := v1.Group("")
		public.Use(optionalAuthMiddleware(services.Auth), localeMiddleware())
		{
			public.GET("/sections", contentHandler.GetSections)
			public.GET("/articles/:id", contentHandler.GetArticle)
			public.GET("/articles/:id/comments", commentHandler.ListForArticle)
			public.GET("/search", searchHandler.Search)
			public.POST("/chatbot", searchHandler.Chat)
		}

		// Authenticated user actions
		authed := v1.Group("")
		authed.Use(authMiddleware(services.Auth))
		{
			authed.POST("/articles/:id/comments", commentHandler.Create)
			authed.PUT("/comments/:id", commentHandler.Update)
			authed.DELETE("/comments/:id", commentHandler.Delete)
			authed.POST("/comments/:id/like", commentHandler.ToggleLike)

			twofa := authed.Group("/2fa")
			{
				twofa.POST("/enable", twoFactorHandler.Enable)
				twofa.POST("/confirm", twoFactorHandler.Confirm)
				twofa.DELETE("/disable", twoFactorHandler.Disable)
				twofa.POST("/recovery-codes", twoFactorHandler.RegenerateRecoveryCodes)
				twofa.GET("/status", twoFactorHandler.Status)
			}
		}

		// Moderation and content management
		admin := v1.Group("/admin")
		admin.Use(authMiddleware(services.Auth), localeMiddleware(), staffMiddleware(models.CapModerate))
		{
			admin.GET("/comments/pending", commentHandler.PendingQueue)
			admin.POST("/comments/:id/approve", commentHandler.Approve)
			admin.POST("/comments/:id/reject", commentHandler.Reject)

			admin.POST("/sections", contentHandler.CreateSection)
			admin.PUT("/sections/:id/active", contentHandler.SetActive(models.EntitySection))
			admin.DELETE("/sections/:id", contentHandler.Delete(models.EntitySection))

			admin.POST("/chapters", contentHandler.CreateChapter)
			admin.PUT("/chapters/:id/active", contentHandler.SetActive(models.EntityChapter))
			admin.DELETE("/chapters/:id", contentHandler.Delete(models.EntityChapter))

			admin.POST("/articles", contentHandler.CreateArticle)
			admin.PUT("/articles/:id", contentHandler.UpdateArticle)
			admin.PUT("/articles/:id/active", contentHandler.SetActive(models.EntityArticle))
			admin.DELETE("/articles/:id", contentHandler.Delete(models.EntityArticle))
			admin.POST("/articles/:id/submit", contentHandler.SubmitTranslation)
			admin.POST("/articles/:id/approve", contentHandler.ApproveTranslation)

			// Analytics and the audit trail require the admin role
			stats := admin.Group("")
			stats.Use(staffMiddleware(models.CapAdmin))
			{
				stats.GET("/stats", adminHandler.StatsOverview)
				stats.GET("/stats/comments-per-day", adminHandler.CommentsPerDay)
				stats.GET("/stats/top-articles", adminHandler.TopCommentedArticles)
				stats.GET("/activity", adminHandler.RecentActivity)
				stats.GET("/users/:id/activity", adminHandler.UserActivity)
			}
		}
	}

	return router
}

// metricsHandler returns portal-wide database counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, err := services.Stats.Overview(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "metrics unavailable"})
			return
		}

		comments := 0
		for _, n := range overview.CommentsByStatus {
			comments += n
		}

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"users":    overview.Users,
				"sections": overview.Sections,
				"chapters": overview.Chapters,
				"articles": overview.Articles,
				"comments": comments,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "legal-portal-api",
	})
}
