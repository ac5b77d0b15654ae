package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/danielgaio/openbricks/internal/config"
	"github.com/danielgaio/openbricks/internal/models"
	"github.com/danielgaio/openbricks/internal/service"
	"github.com/danielgaio/openbricks/pkg/identity"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

// recordingUpstream captures the identity headers of the last request it
// served, so tests can assert what the gateway actually forwarded.
type recordingUpstream struct {
	server   *httptest.Server
	lastPath string
	userID   string
	email    string
	role     string
	auth     string
}

func newRecordingUpstream(t *testing.T) *recordingUpstream {
	t.Helper()
	u := &recordingUpstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.lastPath = r.URL.Path
		u.userID = r.Header.Get(identity.HeaderUserID)
		u.email = r.Header.Get(identity.HeaderUserEmail)
		u.role = r.Header.Get(identity.HeaderUserRole)
		u.auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(u.server.Close)
	return u
}

func newTestRouter(t *testing.T, authURL, apiURL string) (*gin.Engine, service.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	tokens := service.NewTokenService(testSecret, time.Hour)
	if tokens == nil {
		t.Fatal("NewTokenService returned nil for a valid secret")
	}

	cfg := &config.GatewayConfig{
		AuthServiceURL:   authURL,
		APIServiceURL:    apiURL,
		GeneralRateLimit: 100,
		AuthRateLimit:    100,
		RateWindow:       15 * time.Minute,
	}
	return Router(New(tokens), cfg, redisClient), tokens
}

func issueToken(t *testing.T, tokens service.TokenService, user *models.User) string {
	t.Helper()
	token, _, err := tokens.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return token
}

// =============================================================================
// API Route Tests
// =============================================================================

func TestGateway_StampsIdentityFromVerifiedToken(t *testing.T) {
	upstream := newRecordingUpstream(t)
	router, tokens := newTestRouter(t, "http://localhost:0", upstream.server.URL)

	token := issueToken(t, tokens, &models.User{
		ID:    42,
		Email: "real@x.com",
		Role:  identity.RoleModerator,
	})

	// Forged identity headers ride in alongside a valid token. Only the
	// token's identity may reach the upstream.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(identity.HeaderUserID, "1")
	req.Header.Set(identity.HeaderUserEmail, "forged@x.com")
	req.Header.Set(identity.HeaderUserRole, "admin")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if upstream.userID != "42" || upstream.email != "real@x.com" || upstream.role != "moderator" {
		t.Errorf("upstream saw identity (%s, %s, %s), want (42, real@x.com, moderator)",
			upstream.userID, upstream.email, upstream.role)
	}
}

func TestGateway_MissingToken(t *testing.T) {
	upstream := newRecordingUpstream(t)
	router, _ := newTestRouter(t, "http://localhost:0", upstream.server.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if upstream.lastPath != "" {
		t.Errorf("upstream was reached at %q, want no request", upstream.lastPath)
	}
}

func TestGateway_InvalidToken(t *testing.T) {
	upstream := newRecordingUpstream(t)
	router, _ := newTestRouter(t, "http://localhost:0", upstream.server.URL)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage token", token: "not-a-jwt"},
		{
			name: "token signed with another secret",
			token: issueToken(t,
				service.NewTokenService("another-secret-also-32-bytes-long!!", time.Hour),
				&models.User{ID: 1, Email: "a@b.com", Role: identity.RoleUser}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGateway_ForgedHeadersStrippedWithoutToken(t *testing.T) {
	authUpstream := newRecordingUpstream(t)
	router, _ := newTestRouter(t, authUpstream.server.URL, "http://localhost:0")

	// Auth routes need no token, so forged headers would sail through
	// unless the boundary strips them.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set(identity.HeaderUserID, "1")
	req.Header.Set(identity.HeaderUserEmail, "forged@x.com")
	req.Header.Set(identity.HeaderUserRole, "admin")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if authUpstream.userID != "" || authUpstream.email != "" || authUpstream.role != "" {
		t.Errorf("upstream saw identity headers (%s, %s, %s), want all stripped",
			authUpstream.userID, authUpstream.email, authUpstream.role)
	}
}

func TestGateway_AuthRoutesProxiedWithoutToken(t *testing.T) {
	authUpstream := newRecordingUpstream(t)
	router, _ := newTestRouter(t, authUpstream.server.URL, "http://localhost:0")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if authUpstream.lastPath != "/api/auth/register" {
		t.Errorf("upstream path = %q, want /api/auth/register", authUpstream.lastPath)
	}
}

func TestGateway_BearerTokenForwardedToUpstream(t *testing.T) {
	upstream := newRecordingUpstream(t)
	router, tokens := newTestRouter(t, "http://localhost:0", upstream.server.URL)

	token := issueToken(t, tokens, &models.User{ID: 1, Email: "a@b.com", Role: identity.RoleUser})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// The original Authorization header stays on the request so upstreams
	// that re-verify still can.
	if upstream.auth != "Bearer "+token {
		t.Errorf("upstream Authorization = %q, want original bearer token", upstream.auth)
	}
}

// =============================================================================
// Proxy Failure Tests
// =============================================================================

func TestGateway_UpstreamDown(t *testing.T) {
	router, tokens := newTestRouter(t, "http://localhost:0", "http://localhost:0")

	token := issueToken(t, tokens, &models.User{ID: 1, Email: "a@b.com", Role: identity.RoleUser})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestGateway_Health(t *testing.T) {
	router, _ := newTestRouter(t, "http://auth:8081", "http://api:8000")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
