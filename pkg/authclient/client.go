// Package authclient is the verification client used by downstream services
// to resolve a bearer token to an identity by calling the auth service.
//
// It distinguishes two failure modes that callers must never conflate:
// ErrUnauthenticated (the token is bad) and ErrServiceUnavailable (the auth
// service could not be reached, safe to retry with backoff at the caller's
// discretion).
package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgaio/openbricks/pkg/identity"
)

var (
	// ErrUnauthenticated indicates the token was rejected: missing,
	// malformed, bad signature, or expired. Never retried with the same
	// token.
	ErrUnauthenticated = errors.New("authclient: token rejected")
	// ErrServiceUnavailable indicates the auth service could not be
	// reached or answered with a server error. Distinct from a bad token.
	ErrServiceUnavailable = errors.New("authclient: auth service unavailable")
)

// DefaultTimeout bounds the verify RPC when the caller supplies no
// http.Client of its own.
const DefaultTimeout = 5 * time.Second

// Client calls the auth service verify endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to adjust the
// timeout or inject a transport in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a verification client for the auth service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type verifyResponse struct {
	Valid bool              `json:"valid"`
	User  identity.Identity `json:"user"`
	Error string            `json:"error"`
}

// Verify resolves token to the identity embedded in it. Verification is a
// pure read: if ctx is cancelled mid-flight the call is abandoned with no
// side effects. The client never retries; retry policy belongs to the
// caller.
func (c *Client) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/verify", nil)
	if err != nil {
		return nil, fmt.Errorf("authclient: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var body verifyResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: decoding response: %v", ErrServiceUnavailable, err)
		}
		if !body.Valid {
			return nil, ErrUnauthenticated
		}
		ident := body.User
		return &ident, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthenticated
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrServiceUnavailable, resp.StatusCode)
	}
}
