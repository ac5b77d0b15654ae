// Package identity defines the verified-identity value shared by all
// OpenBricks services, along with the trusted header contract used to
// propagate it from the gateway to downstream services.
package identity

import (
	"net/http"
	"strconv"
	"strings"
)

// Role is the coarse-grained permission level attached to a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Trusted identity headers stamped by the gateway after token verification.
// Only the gateway may set these; it strips them from every inbound request
// before deciding whether to re-add them.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

// Identity is the authenticated subject of a request. It is constructed in
// exactly two places: the gateway (from a verified token) and the ingress
// resolver of a downstream service (from trusted headers or a verify call).
// Handlers receive it already built and never re-derive it.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// FromHeaders reconstructs an Identity from the trusted header set. It
// returns false unless all three headers are present and the ID parses as
// a number; a partial or malformed set is treated as no identity at all so
// the caller falls back to token verification.
func FromHeaders(h http.Header) (Identity, bool) {
	rawID := h.Get(HeaderUserID)
	email := h.Get(HeaderUserEmail)
	role := h.Get(HeaderUserRole)

	if rawID == "" || email == "" || role == "" {
		return Identity{}, false
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return Identity{}, false
	}

	return Identity{ID: id, Email: email, Role: Role(role)}, true
}

// Stamp writes the trusted header set for ident onto h, replacing any
// previous values.
func Stamp(h http.Header, ident Identity) {
	h.Set(HeaderUserID, strconv.FormatInt(ident.ID, 10))
	h.Set(HeaderUserEmail, ident.Email)
	h.Set(HeaderUserRole, string(ident.Role))
}

// Strip removes the trusted header set from h. The gateway applies this to
// every inbound request so clients cannot smuggle their own identity.
func Strip(h http.Header) {
	h.Del(HeaderUserID)
	h.Del(HeaderUserEmail)
	h.Del(HeaderUserRole)
}

// BearerToken extracts the bearer token from the Authorization header, or
// returns "" when none is present. The scheme is matched case-insensitively
// per RFC 7235; every component parses credentials through this one
// function so a token accepted by one service is accepted by all.
func BearerToken(h http.Header) string {
	parts := strings.SplitN(h.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
