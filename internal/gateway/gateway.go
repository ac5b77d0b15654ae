// Package gateway implements the edge trust boundary: the single component
// permitted to verify raw bearer tokens on behalf of downstream services
// and convert them into trusted identity headers.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/danielgaio/openbricks/internal/config"
	"github.com/danielgaio/openbricks/internal/middleware"
	"github.com/danielgaio/openbricks/internal/service"
	"github.com/danielgaio/openbricks/pkg/authclient"
	"github.com/danielgaio/openbricks/pkg/identity"
	"github.com/danielgaio/openbricks/pkg/respond"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// Gateway verifies tokens at the edge and proxies to upstream services.
type Gateway struct {
	tokens service.TokenService
}

// New creates a gateway around the shared-secret token service.
func New(tokens service.TokenService) *Gateway {
	return &Gateway{tokens: tokens}
}

// Verify implements middleware.Verifier with local signature verification.
// The gateway holds the signing secret, so no verify RPC is needed here.
func (g *Gateway) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	claims, err := g.tokens.Validate(token)
	if err != nil {
		return nil, authclient.ErrUnauthenticated
	}
	ident := claims.Identity()
	return &ident, nil
}

// StripTrustedHeaders removes the identity header set from every inbound
// request. Clients must never be able to smuggle a pre-verified identity
// past the boundary; only this gateway re-adds the headers, and only after
// verifying a token.
func (g *Gateway) StripTrustedHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity.Strip(c.Request.Header)
		c.Next()
	}
}

// Authenticate verifies the bearer token once and stamps the trusted
// identity headers onto the forwarded request.
func (g *Gateway) Authenticate() gin.HandlerFunc {
	resolver := middleware.NewTokenResolver(g, "local")
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			respond.Error(c, http.StatusUnauthorized, "Access token required")
			return
		}

		ident, err := resolver.Resolve(c.Request)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		identity.Stamp(c.Request.Header, *ident)
		c.Next()
	}
}

// Proxy forwards requests to the upstream at target, answering 502 when
// the upstream cannot be reached.
func Proxy(target string) gin.HandlerFunc {
	upstream, err := url.Parse(target)
	if err != nil {
		panic("gateway: invalid upstream URL " + target)
	}

	proxy := httputil.NewSingleHostReverseProxy(upstream)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, proxyErr error) {
		slog.Error("proxy error", "upstream", upstream.Host, "path", r.URL.Path, "error", proxyErr)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(gin.H{
			"error":   "Bad Gateway",
			"message": "Unable to connect to upstream service",
		})
	}

	return func(c *gin.Context) {
		// The proxy needs a cancellable request context; without one it
		// falls back to CloseNotify, which gin cannot serve for every
		// underlying writer.
		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()
		proxy.ServeHTTP(c.Writer, c.Request.WithContext(ctx))
	}
}

// Router assembles the gateway's routes: auth endpoints are proxied with
// the strict limiter and no token requirement, API endpoints require a
// verified token and carry stamped identity headers upstream.
func Router(g *Gateway, cfg *config.GatewayConfig, redisClient *goredis.Client) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), g.StripTrustedHeaders())

	authLimiter := middleware.RateLimit(redisClient, middleware.RateLimitConfig{
		Layer:  "gateway",
		Scope:  "auth",
		Limit:  cfg.AuthRateLimit,
		Window: cfg.RateWindow,
	})
	generalLimiter := middleware.RateLimit(redisClient, middleware.RateLimitConfig{
		Layer:  "gateway",
		Scope:  "general",
		Limit:  cfg.GeneralRateLimit,
		Window: cfg.RateWindow,
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "api-gateway",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"upstreams": gin.H{
				"auth": cfg.AuthServiceURL,
				"api":  cfg.APIServiceURL,
			},
		})
	})

	router.Any("/api/auth/*path", authLimiter, Proxy(cfg.AuthServiceURL))
	router.Any("/api/v1/*path", generalLimiter, g.Authenticate(), Proxy(cfg.APIServiceURL))

	return router
}
