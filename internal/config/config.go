// Package config handles environment-based configuration for the auth
// platform binaries.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// AuthConfig configures the token service (authd).
type AuthConfig struct {
	Port          string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	TokenTTL      time.Duration
	AuthRateLimit int
	RateWindow    time.Duration
	SwaggerHost   string
}

// LoadAuth reads the token service configuration from the environment.
func LoadAuth() *AuthConfig {
	return &AuthConfig{
		Port:          GetEnv("PORT", "8081"),
		DatabaseURL:   GetEnv("DATABASE_URL", ""),
		RedisAddr:     GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		JWTSecret:     GetEnvRequired("JWT_SECRET"),
		TokenTTL:      getDuration("JWT_EXPIRY", time.Hour),
		AuthRateLimit: getInt("AUTH_RATE_LIMIT", 10),
		RateWindow:    getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		SwaggerHost:   GetEnv("SWAGGER_HOST", ""),
	}
}

// GatewayConfig configures the edge gateway.
type GatewayConfig struct {
	Port             string
	AuthServiceURL   string
	APIServiceURL    string
	RedisAddr        string
	RedisPassword    string
	JWTSecret        string
	GeneralRateLimit int
	AuthRateLimit    int
	RateWindow       time.Duration
}

// LoadGateway reads the gateway configuration from the environment.
func LoadGateway() *GatewayConfig {
	return &GatewayConfig{
		Port:             GetEnv("PORT", "8080"),
		AuthServiceURL:   GetEnv("AUTH_SERVICE_URL", "http://localhost:8081"),
		APIServiceURL:    GetEnv("API_SERVICE_URL", "http://localhost:8000"),
		RedisAddr:        GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    GetEnv("REDIS_PASSWORD", ""),
		JWTSecret:        GetEnvRequired("JWT_SECRET"),
		GeneralRateLimit: getInt("GENERAL_RATE_LIMIT", 100),
		AuthRateLimit:    getInt("AUTH_RATE_LIMIT", 10),
		RateWindow:       getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
	}
}

// APIConfig configures the downstream platform API service.
type APIConfig struct {
	Port             string
	DatabaseURL      string
	AuthServiceURL   string
	RedisAddr        string
	RedisPassword    string
	TrustGateway     bool
	GeneralRateLimit int
	RateWindow       time.Duration
}

// LoadAPI reads the API service configuration from the environment.
func LoadAPI() *APIConfig {
	return &APIConfig{
		Port:             GetEnv("PORT", "8000"),
		DatabaseURL:      GetEnvRequired("DATABASE_URL"),
		AuthServiceURL:   GetEnv("AUTH_SERVICE_URL", "http://localhost:8081"),
		RedisAddr:        GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    GetEnv("REDIS_PASSWORD", ""),
		TrustGateway:     getBool("TRUST_GATEWAY_HEADERS", true),
		GeneralRateLimit: getInt("GENERAL_RATE_LIMIT", 100),
		RateWindow:       getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
	}
}

// GetEnv returns the value of key, or defaultValue when unset or empty.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvRequired returns the value of key and exits when it is missing.
func GetEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	// Accept both Go durations ("1h") and bare seconds ("3600").
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
