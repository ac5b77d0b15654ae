package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgaio/openbricks/pkg/identity"
)

func verifyServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/verify", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestVerify_ValidToken(t *testing.T) {
	server := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer good-token" {
			t.Errorf("Authorization = %q, want Bearer good-token", got)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"valid": true,
			"user":  map[string]any{"id": 1, "email": "bob@x.com", "role": "user"},
		})
	})

	client := New(server.URL)
	ident, err := client.Verify(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	want := identity.Identity{ID: 1, Email: "bob@x.com", Role: identity.RoleUser}
	if *ident != want {
		t.Errorf("identity = %+v, want %+v", *ident, want)
	}
}

func TestVerify_RejectedToken(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "401 response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"valid": false, "error": "Invalid token"})
			},
		},
		{
			name: "200 with valid false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"valid": false})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := verifyServer(t, tt.handler)
			client := New(server.URL)

			_, err := client.Verify(context.Background(), "bad-token")
			if !errors.Is(err, ErrUnauthenticated) {
				t.Errorf("Verify() error = %v, want ErrUnauthenticated", err)
			}
		})
	}
}

func TestVerify_ServiceUnavailable(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		server := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {})
		client := New(server.URL)
		server.Close()

		_, err := client.Verify(context.Background(), "any-token")
		if !errors.Is(err, ErrServiceUnavailable) {
			t.Errorf("Verify() error = %v, want ErrServiceUnavailable", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		client := New(server.URL)

		_, err := client.Verify(context.Background(), "any-token")
		if !errors.Is(err, ErrServiceUnavailable) {
			t.Errorf("Verify() error = %v, want ErrServiceUnavailable", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		server := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		})
		client := New(server.URL, WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))

		_, err := client.Verify(context.Background(), "any-token")
		if !errors.Is(err, ErrServiceUnavailable) {
			t.Errorf("Verify() error = %v, want ErrServiceUnavailable", err)
		}
	})
}

func TestVerify_ContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})
	client := New(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.Verify(ctx, "any-token")
	if err == nil {
		t.Fatal("Verify() with cancelled context returned nil error")
	}
}
