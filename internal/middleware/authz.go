package middleware

import (
	"errors"
	"net/http"

	"github.com/danielgaio/openbricks/internal/repository"
	"github.com/danielgaio/openbricks/pkg/identity"
	"github.com/danielgaio/openbricks/pkg/respond"
	"github.com/gin-gonic/gin"
)

// RequireRole allows only the listed roles. Admin is not implied: a check
// that should admit admins must name RoleAdmin explicitly. Must run after
// Authenticate.
func RequireRole(allowed ...identity.Role) gin.HandlerFunc {
	allowedSet := make(map[identity.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		ident, ok := CurrentIdentity(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		if _, ok := allowedSet[ident.Role]; !ok {
			respond.Error(c, http.StatusForbidden, "Insufficient permissions")
			return
		}

		c.Next()
	}
}

// OwnerFunc reports who owns the resource addressed by the request.
type OwnerFunc func(c *gin.Context) (int64, error)

// RequireOwnership allows the resource owner and, regardless of ownership,
// any admin. Must run after Authenticate.
func RequireOwnership(ownerOf OwnerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := CurrentIdentity(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		ownerID, err := ownerOf(c)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				respond.Error(c, http.StatusNotFound, "Resource not found")
				return
			}
			respond.LogAndError(c, http.StatusInternalServerError, err, "Authorization check failed")
			return
		}

		if !ident.IsAdmin() && ident.ID != ownerID {
			respond.Error(c, http.StatusForbidden, "You do not have permission to access this resource")
			return
		}

		c.Next()
	}
}
