package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sellora/sellora-backend/config"
	"github.com/sellora/sellora-backend/internal/app/controller"
	"github.com/sellora/sellora-backend/internal/middleware"
)

type Router struct {
	storeController   *controller.StoreController
	webhookController *controller.WebhookController
	adminController   *controller.AdminController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	storeController *controller.StoreController,
	webhookController *controller.WebhookController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		storeController:   storeController,
		webhookController: webhookController,
		adminController:   adminController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Sellora API is running",
		})
	})

	api := router.Group("/api")
	{
		store := api.Group("/store")
		{
			store.POST("/create", r.authMiddleware.Authenticate(), r.storeController.Create)
			// Status read is soft-authenticated: anonymous callers get the
			// "not registered" sentinel instead of a 401.
			store.GET("/create", r.authMiddleware.OptionalAuthenticate(), r.storeController.GetStatus)
		}

		webhooks := api.Group("/webhooks")
		{
			webhooks.POST("/identity", r.webhookController.HandleIdentityEvent)
		}

		admin := api.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(middleware.RoleAdmin))
		{
			admin.GET("/stores", r.adminController.ListStores)
			admin.GET("/stores/export", r.adminController.ExportStores)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
