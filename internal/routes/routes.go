// Package routes defines HTTP routes for the auth platform services.
package routes

import (
	"github.com/danielgaio/openbricks/docs"
	"github.com/danielgaio/openbricks/internal/config"
	"github.com/danielgaio/openbricks/internal/handlers"
	"github.com/danielgaio/openbricks/internal/middleware"
	"github.com/danielgaio/openbricks/pkg/identity"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupAuth configures the token service routes. The auth endpoints share
// a strict limiter budget, separate from any general traffic limit, so
// brute-force attempts cannot ride on ordinary API capacity.
func SetupAuth(router *gin.Engine, authHandler *handlers.AuthHandler, healthHandler *handlers.HealthHandler, cfg *config.AuthConfig, redisClient *goredis.Client) {
	router.Use(middleware.RequestID())

	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authLimiter := middleware.RateLimit(redisClient, middleware.RateLimitConfig{
		Layer:  "auth",
		Scope:  "auth",
		Limit:  cfg.AuthRateLimit,
		Window: cfg.RateWindow,
	})

	v1 := router.Group("/api/auth", authLimiter)
	{
		v1.POST("/register", authHandler.Register)
		v1.POST("/login", authHandler.Login)
		v1.POST("/verify", authHandler.Verify)
		v1.POST("/refresh", authHandler.Refresh)
	}

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// SetupAPI configures the downstream platform API routes. Identity is
// resolved once at ingress by the resolver chain; everything after reads
// the typed identity from the request context.
func SetupAPI(router *gin.Engine, wsHandler *handlers.WorkspaceHandler, healthHandler *handlers.HealthHandler, resolver middleware.Resolver, cfg *config.APIConfig, redisClient *goredis.Client) {
	router.Use(middleware.RequestID())

	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	generalLimiter := middleware.RateLimit(redisClient, middleware.RateLimitConfig{
		Layer:  "api",
		Scope:  "general",
		Limit:  cfg.GeneralRateLimit,
		Window: cfg.RateWindow,
	})

	v1 := router.Group("/api/v1", generalLimiter)
	{
		authed := v1.Group("", middleware.Authenticate(resolver))
		{
			authed.GET("/workspaces", wsHandler.List)
			authed.POST("/workspaces", wsHandler.Create)
			authed.GET("/workspaces/:id", middleware.RequireOwnership(wsHandler.WorkspaceOwner), wsHandler.Get)
			authed.DELETE("/workspaces/:id",
				middleware.RequireRole(identity.RoleUser, identity.RoleModerator, identity.RoleAdmin),
				middleware.RequireOwnership(wsHandler.WorkspaceOwner),
				wsHandler.Delete)
		}

		// Catalog listing stays reachable for anonymous callers; auth
		// failures degrade to the public view instead of erroring.
		v1.GET("/tables", middleware.OptionalAuthenticate(resolver), wsHandler.ListTables)
	}
}
