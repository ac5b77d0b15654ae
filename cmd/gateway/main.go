// Package main is the entry point for the edge gateway.
package main

import (
	"fmt"
	"log"

	"github.com/danielgaio/openbricks/internal/config"
	"github.com/danielgaio/openbricks/internal/gateway"
	"github.com/danielgaio/openbricks/internal/service"
	"github.com/danielgaio/openbricks/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	cfg := config.LoadGateway()

	// The gateway shares the signing secret with the token service so it
	// can verify raw tokens at the edge without a verify RPC per request.
	tokenService := service.NewTokenService(cfg.JWTSecret, 0)
	if tokenService == nil {
		log.Fatal("JWT_SECRET must be at least 32 bytes")
	}

	redisClient, err := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	gw := gateway.New(tokenService)
	router := gateway.Router(gw, cfg, redisClient)

	log.Printf("Starting API gateway on port %s", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
