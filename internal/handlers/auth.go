// Package handlers contains HTTP request handlers for the auth platform.
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgaio/openbricks/internal/metrics"
	"github.com/danielgaio/openbricks/internal/service"
	"github.com/danielgaio/openbricks/pkg/identity"
	"github.com/danielgaio/openbricks/pkg/respond"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	auth   service.AuthService
	tokens service.TokenService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(auth service.AuthService, tokens service.TokenService) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents a successful issuance response.
type TokenResponse struct {
	Message   string      `json:"message"`
	User      interface{} `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Register godoc
// @Summary Register a new account
// @Description Create a credential record and return a signed token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthRequests.WithLabelValues("register", "invalid_input").Inc()
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		metrics.AuthRequests.WithLabelValues("register", "invalid_input").Inc()
		respond.Error(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.auth.Register(c.Request.Context(), strings.TrimSpace(req.Email), req.Password, strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			metrics.AuthRequests.WithLabelValues("register", "conflict").Inc()
			respond.Error(c, http.StatusConflict, "User already exists")
			return
		}
		metrics.AuthRequests.WithLabelValues("register", "error").Inc()
		respond.LogAndError(c, http.StatusInternalServerError, err, "Registration failed")
		return
	}

	metrics.AuthRequests.WithLabelValues("register", "success").Inc()
	c.JSON(http.StatusCreated, TokenResponse{
		Message:   "User registered successfully",
		User:      result.User,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC(),
	})
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password and return a signed token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthRequests.WithLabelValues("login", "invalid_input").Inc()
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		metrics.AuthRequests.WithLabelValues("login", "invalid_input").Inc()
		respond.Error(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Unknown email and wrong password produce this same response;
			// the difference must not leak which emails exist.
			metrics.AuthRequests.WithLabelValues("login", "unauthenticated").Inc()
			respond.Error(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		metrics.AuthRequests.WithLabelValues("login", "error").Inc()
		respond.LogAndError(c, http.StatusInternalServerError, err, "Login failed")
		return
	}

	metrics.AuthRequests.WithLabelValues("login", "success").Inc()
	c.JSON(http.StatusOK, TokenResponse{
		Message:   "Login successful",
		User:      result.User,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC(),
	})
}

// VerifyResponse represents the token verification response.
type VerifyResponse struct {
	Valid bool        `json:"valid"`
	User  interface{} `json:"user,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Verify godoc
// @Summary Verify a bearer token
// @Description Validate the token in the Authorization header and return its claims
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} VerifyResponse
// @Failure 401 {object} VerifyResponse
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	token := identity.BearerToken(c.Request.Header)
	if token == "" {
		metrics.AuthRequests.WithLabelValues("verify", "unauthenticated").Inc()
		c.AbortWithStatusJSON(http.StatusUnauthorized, VerifyResponse{Valid: false, Error: "Invalid token"})
		return
	}

	// A pure function of the token: no credential store lookup, so claims
	// reflect the role at issuance, not later changes.
	claims, err := h.tokens.Validate(token)
	if err != nil {
		metrics.AuthRequests.WithLabelValues("verify", "unauthenticated").Inc()
		c.AbortWithStatusJSON(http.StatusUnauthorized, VerifyResponse{Valid: false, Error: "Invalid token"})
		return
	}

	metrics.AuthRequests.WithLabelValues("verify", "success").Inc()
	c.JSON(http.StatusOK, VerifyResponse{Valid: true, User: claims.Identity()})
}

// Refresh godoc
// @Summary Refresh a token
// @Description Exchange a still-valid token for a fresh one carrying the current role
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} TokenResponse
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := identity.BearerToken(c.Request.Header)
	if token == "" {
		metrics.AuthRequests.WithLabelValues("refresh", "unauthenticated").Inc()
		respond.Error(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken),
			errors.Is(err, service.ErrTokenExpired),
			errors.Is(err, service.ErrInvalidCredentials):
			metrics.AuthRequests.WithLabelValues("refresh", "unauthenticated").Inc()
			respond.Error(c, http.StatusUnauthorized, "Invalid token")
		default:
			// A store failure is not a bad credential; surface it as an
			// internal error so callers do not discard a live token.
			metrics.AuthRequests.WithLabelValues("refresh", "error").Inc()
			respond.LogAndError(c, http.StatusInternalServerError, err, "Token refresh failed")
		}
		return
	}

	metrics.AuthRequests.WithLabelValues("refresh", "success").Inc()
	c.JSON(http.StatusOK, TokenResponse{
		Message:   "Token refreshed",
		User:      result.User,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC(),
	})
}
