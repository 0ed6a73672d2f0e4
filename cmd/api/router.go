package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vasilestie-backend/internal/rbac"
	"vasilestie-backend/internal/shared/middleware"
	"vasilestie-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigin),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupPublicRoutes(v1, c)
		setupAuthRoutes(v1, c)
		setupCraftsmanRoutes(v1, c)
		setupAdminRoutes(v1, c)
		setupCollaboratorRoutes(v1, c)
	}

	return router
}

// setupPublicRoutes mounts the unauthenticated marketplace surface.
func setupPublicRoutes(rg *gin.RouterGroup, c *container.Container) {
	rg.GET("/craftsmen", c.CraftsmanHandler.ListPublic)
	rg.GET("/craftsmen/:id", c.CraftsmanHandler.GetPublicByID)

	blog := rg.Group("/blog")
	{
		blog.GET("/posts", c.BlogHandler.ListPublished)
		blog.GET("/posts/:slug", c.BlogHandler.GetPublishedBySlug)
		blog.GET("/categories", c.BlogHandler.ListCategories)
	}

	newsletter := rg.Group("/newsletter")
	{
		newsletter.POST("/subscribe", c.NewsletterHandler.Subscribe)
		newsletter.POST("/unsubscribe", c.NewsletterHandler.Unsubscribe)
	}
}

func setupAuthRoutes(rg *gin.RouterGroup, c *container.Container) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.RefreshToken)
		auth.POST("/logout", c.UserHandler.Logout)
	}
}

// setupCraftsmanRoutes mounts craftsman self-service (authenticated).
func setupCraftsmanRoutes(rg *gin.RouterGroup, c *container.Container) {
	craftsmen := rg.Group("/craftsmen")
	craftsmen.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		craftsmen.POST("/onboard", c.CraftsmanHandler.Onboard)
		craftsmen.PUT("/me", c.CraftsmanHandler.UpdateOwnProfile)
	}
}

// setupAdminRoutes mounts the admin back office (admin tier).
func setupAdminRoutes(rg *gin.RouterGroup, c *container.Container) {
	admin := rg.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.RequireAdminTier(),
	)
	{
		admin.GET("/craftsmen",
			middleware.RequireCapability(rbac.CapViewCraftsmen), c.CraftsmanHandler.ListAdmin)
		admin.PATCH("/craftsmen/:id/approve",
			middleware.RequireCapability(rbac.CapEditCraftsmen), c.CraftsmanHandler.Approve)
		admin.PATCH("/craftsmen/:id/reject",
			middleware.RequireCapability(rbac.CapEditCraftsmen), c.CraftsmanHandler.Reject)

		team := admin.Group("/team", middleware.RequireCapability(rbac.CapManageTeam))
		{
			team.GET("", c.UserHandler.ListTeam)
			team.POST("", c.UserHandler.CreateTeamMember)
			team.PUT("/:id", c.UserHandler.UpdateTeamMember)
			team.DELETE("/:id", c.UserHandler.DeleteTeamMember)
		}

		admin.GET("/logs",
			middleware.RequireCapability(rbac.CapViewLogs), c.AuditHandler.List)
		admin.GET("/newsletter",
			middleware.RequireCapability(rbac.CapViewAnalytics), c.NewsletterHandler.List)
	}
}

// setupCollaboratorRoutes mounts the collaborator back office.
func setupCollaboratorRoutes(rg *gin.RouterGroup, c *container.Container) {
	colab := rg.Group("/colaborator")
	colab.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		colab.GET("/users",
			middleware.RequireCapability(rbac.CapViewUsers), c.UserHandler.ListUsers)
		colab.PUT("/users/:id/status",
			middleware.RequireCapability(rbac.CapEditUsers), c.UserHandler.UpdateUserStatus)

		articles := colab.Group("/content/articles")
		{
			articles.GET("",
				middleware.RequireCapability(rbac.CapViewContent), c.BlogHandler.ListAll)
			articles.POST("",
				middleware.RequireCapability(rbac.CapEditContent), c.BlogHandler.CreatePost)
			articles.PUT("/:id",
				middleware.RequireCapability(rbac.CapEditContent), c.BlogHandler.UpdatePost)
			articles.DELETE("/:id",
				middleware.RequireCapability(rbac.CapEditContent), c.BlogHandler.DeletePost)
			articles.PATCH("/:id/toggle",
				middleware.RequireCapability(rbac.CapEditContent), c.BlogHandler.TogglePublish)
		}

		categories := colab.Group("/content/categories")
		{
			categories.GET("",
				middleware.RequireCapability(rbac.CapViewContent), c.BlogHandler.ListCategories)
			categories.POST("",
				middleware.RequireCapability(rbac.CapEditContent), c.BlogHandler.CreateCategory)
			categories.PUT("/:id",
				middleware.RequireCapability(rbac.CapEditContent), c.BlogHandler.UpdateCategory)
			categories.DELETE("/:id",
				middleware.RequireCapability(rbac.CapEditContent), c.BlogHandler.DeleteCategory)
		}
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		if err := c.HealthCheck(checkCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"message": "Service indisponibil",
			})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "ok",
			"data": gin.H{
				"version":     c.Config.App.Version,
				"environment": c.Config.App.Environment,
			},
		})
	}
}
