// Package respond provides the shared JSON error helpers used by all
// OpenBricks services. Every error body has the same shape: {"error": "..."}.
package respond

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// Error writes a JSON error response and aborts the request.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// LogAndError logs the underlying error with request context and responds
// with a client-safe message. Internal detail never reaches the client.
func LogAndError(c *gin.Context, status int, err error, message string) {
	slog.Error(message,
		"error", err,
		"status", status,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
	Error(c, status, message)
}
