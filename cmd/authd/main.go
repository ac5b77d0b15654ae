// Package main is the entry point for the token service.
package main

import (
	"fmt"
	"log"

	_ "github.com/danielgaio/openbricks/docs"
	"github.com/danielgaio/openbricks/internal/config"
	"github.com/danielgaio/openbricks/internal/handlers"
	"github.com/danielgaio/openbricks/internal/models"
	"github.com/danielgaio/openbricks/internal/repository"
	"github.com/danielgaio/openbricks/internal/routes"
	"github.com/danielgaio/openbricks/internal/service"
	"github.com/danielgaio/openbricks/pkg/database"
	"github.com/danielgaio/openbricks/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title OpenBricks Auth Service API
// @version 1.0
// @description Token issuance and verification service for the OpenBricks platform
// @host localhost:8081
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	cfg := config.LoadAuth()

	// Credential store: Postgres when configured, in-memory for development.
	var (
		userRepo repository.UserRepository
		pinger   handlers.Pinger
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		userRepo = repository.NewUserRepository(db)
		pinger = database.Health{DB: db}
	} else {
		log.Println("DATABASE_URL not set, using in-memory credential store (development only)")
		userRepo = repository.NewMemoryUserRepository()
	}

	redisClient, err := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if tokenService == nil {
		log.Fatal("JWT_SECRET must be at least 32 bytes")
	}
	authService := service.NewAuthService(userRepo, tokenService)

	authHandler := handlers.NewAuthHandler(authService, tokenService)
	healthHandler := handlers.NewHealthHandler("openbricks-auth", pinger)

	router := gin.Default()
	routes.SetupAuth(router, authHandler, healthHandler, cfg, redisClient)

	log.Printf("Starting auth service on port %s", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
