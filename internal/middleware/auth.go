// Package middleware provides HTTP middleware for the auth platform:
// identity resolution, role and ownership checks, and rate limiting.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgaio/openbricks/internal/metrics"
	"github.com/danielgaio/openbricks/pkg/authclient"
	"github.com/danielgaio/openbricks/pkg/identity"
	"github.com/danielgaio/openbricks/pkg/respond"
	"github.com/gin-gonic/gin"
)

// errNoCredential signals that a resolver found nothing to act on, so the
// next resolver in the chain should be consulted. It never escapes the
// chain: an exhausted chain reports ErrUnauthenticated.
var errNoCredential = errors.New("no credential presented")

// Verifier resolves a bearer token to an identity. Implemented by
// authclient.Client (remote verify) and by the gateway's local token
// service adapter.
type Verifier interface {
	Verify(ctx context.Context, token string) (*identity.Identity, error)
}

// Resolver turns an incoming request into a verified identity. The two
// backends (trusted headers, token verification) share this interface so
// every service runs one decision procedure instead of reimplementing it.
type Resolver interface {
	Resolve(r *http.Request) (*identity.Identity, error)
}

// headerResolver trusts the identity headers stamped by the gateway.
// Deployment topology must guarantee clients cannot reach this service
// without passing through the gateway, which strips those headers from
// untrusted requests; software alone cannot prove their origin.
type headerResolver struct{}

// NewHeaderResolver returns the trusted-header backend.
func NewHeaderResolver() Resolver {
	return headerResolver{}
}

func (headerResolver) Resolve(r *http.Request) (*identity.Identity, error) {
	ident, ok := identity.FromHeaders(r.Header)
	if !ok {
		return nil, errNoCredential
	}
	metrics.TokenVerifications.WithLabelValues("header", "ok").Inc()
	return &ident, nil
}

// tokenResolver extracts a bearer token and verifies it.
type tokenResolver struct {
	verifier Verifier
	source   string
}

// NewTokenResolver returns a backend that verifies bearer tokens through
// the given verifier. The source label distinguishes remote verification
// (downstream services) from local verification (the gateway) in metrics.
func NewTokenResolver(verifier Verifier, source string) Resolver {
	return &tokenResolver{verifier: verifier, source: source}
}

func (t *tokenResolver) Resolve(r *http.Request) (*identity.Identity, error) {
	token := identity.BearerToken(r.Header)
	if token == "" {
		return nil, errNoCredential
	}

	ident, err := t.verifier.Verify(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, authclient.ErrServiceUnavailable):
			metrics.TokenVerifications.WithLabelValues(t.source, "unavailable").Inc()
		default:
			metrics.TokenVerifications.WithLabelValues(t.source, "unauthenticated").Inc()
		}
		return nil, err
	}

	metrics.TokenVerifications.WithLabelValues(t.source, "ok").Inc()
	return ident, nil
}

// chainResolver tries each backend in order. A backend that finds no
// credential defers to the next; any other outcome is final, so a request
// carrying trusted headers never triggers a verify call.
type chainResolver []Resolver

// NewResolver builds the standard resolver chain for a downstream service:
// trusted headers first, then remote verification. Set trustHeaders to
// false for deployments where the service is directly reachable.
func NewResolver(verifier Verifier, trustHeaders bool) Resolver {
	chain := chainResolver{}
	if trustHeaders {
		chain = append(chain, NewHeaderResolver())
	}
	return append(chain, NewTokenResolver(verifier, "remote"))
}

func (c chainResolver) Resolve(r *http.Request) (*identity.Identity, error) {
	for _, backend := range c {
		ident, err := backend.Resolve(r)
		if errors.Is(err, errNoCredential) {
			continue
		}
		return ident, err
	}
	return nil, authclient.ErrUnauthenticated
}

// identityKey is the gin context key the resolved identity is stored under.
// Unexported so only this package can set it; handlers read it through
// CurrentIdentity.
const identityKey = "openbricks.identity"

// CurrentIdentity returns the identity resolved for this request, if any.
func CurrentIdentity(c *gin.Context) (*identity.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	ident, ok := value.(*identity.Identity)
	return ident, ok
}

// Authenticate requires a resolved identity. Bad credentials yield 401;
// failure to reach the auth service yields 503, a distinct, higher-severity
// condition the client may retry.
func Authenticate(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, err := resolver.Resolve(c.Request)
		if err != nil {
			if errors.Is(err, authclient.ErrServiceUnavailable) {
				respond.LogAndError(c, http.StatusServiceUnavailable, err, "Authentication service unavailable")
				return
			}
			respond.Error(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// OptionalAuthenticate resolves an identity when one is presented but never
// fails the request: bad tokens and an unreachable auth service both
// degrade to anonymous.
func OptionalAuthenticate(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ident, err := resolver.Resolve(c.Request); err == nil {
			c.Set(identityKey, ident)
		}
		c.Next()
	}
}
