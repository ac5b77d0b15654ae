// Package main is the entry point for the platform API service.
package main

import (
	"fmt"
	"log"

	"github.com/danielgaio/openbricks/internal/config"
	"github.com/danielgaio/openbricks/internal/handlers"
	"github.com/danielgaio/openbricks/internal/middleware"
	"github.com/danielgaio/openbricks/internal/models"
	"github.com/danielgaio/openbricks/internal/repository"
	"github.com/danielgaio/openbricks/internal/routes"
	"github.com/danielgaio/openbricks/pkg/authclient"
	"github.com/danielgaio/openbricks/pkg/database"
	"github.com/danielgaio/openbricks/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	cfg := config.LoadAPI()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(&models.Workspace{}, &models.DataTable{}); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	redisClient, err := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Identity resolution: trust gateway-stamped headers when deployed
	// behind the gateway, fall back to the verify RPC otherwise.
	verifier := authclient.New(cfg.AuthServiceURL)
	resolver := middleware.NewResolver(verifier, cfg.TrustGateway)

	wsHandler := handlers.NewWorkspaceHandler(
		repository.NewWorkspaceRepository(db),
		repository.NewTableRepository(db),
	)
	healthHandler := handlers.NewHealthHandler("openbricks-api", database.Health{DB: db})

	router := gin.Default()
	routes.SetupAPI(router, wsHandler, healthHandler, resolver, cfg, redisClient)

	log.Printf("Starting API service on port %s", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
