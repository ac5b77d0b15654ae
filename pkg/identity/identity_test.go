package identity

import (
	"net/http"
	"testing"
)

func TestRoleValid(t *testing.T) {
	valid := []Role{RoleUser, RoleModerator, RoleAdmin}
	for _, role := range valid {
		if !role.Valid() {
			t.Errorf("Role(%q).Valid() = false, want true", role)
		}
	}

	invalid := []Role{"", "superadmin", "User", "ADMIN"}
	for _, role := range invalid {
		if role.Valid() {
			t.Errorf("Role(%q).Valid() = true, want false", role)
		}
	}
}

func TestFromHeaders(t *testing.T) {
	full := func() http.Header {
		h := http.Header{}
		h.Set(HeaderUserID, "42")
		h.Set(HeaderUserEmail, "a@b.com")
		h.Set(HeaderUserRole, "moderator")
		return h
	}

	tests := []struct {
		name   string
		mutate func(http.Header)
		want   Identity
		wantOK bool
	}{
		{
			name:   "complete header set",
			mutate: func(h http.Header) {},
			want:   Identity{ID: 42, Email: "a@b.com", Role: RoleModerator},
			wantOK: true,
		},
		{
			name:   "missing id",
			mutate: func(h http.Header) { h.Del(HeaderUserID) },
			wantOK: false,
		},
		{
			name:   "missing email",
			mutate: func(h http.Header) { h.Del(HeaderUserEmail) },
			wantOK: false,
		},
		{
			name:   "missing role",
			mutate: func(h http.Header) { h.Del(HeaderUserRole) },
			wantOK: false,
		},
		{
			name:   "non-numeric id",
			mutate: func(h http.Header) { h.Set(HeaderUserID, "forty-two") },
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := full()
			tt.mutate(h)

			got, ok := FromHeaders(h)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("identity = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStampRoundTrip(t *testing.T) {
	h := http.Header{}
	// Pre-existing forged values must be replaced, not appended to.
	h.Set(HeaderUserID, "999")

	want := Identity{ID: 7, Email: "owner@x.com", Role: RoleAdmin}
	Stamp(h, want)

	got, ok := FromHeaders(h)
	if !ok {
		t.Fatal("FromHeaders() after Stamp() returned ok = false")
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	if len(h.Values(HeaderUserID)) != 1 {
		t.Errorf("header %s has %d values, want 1", HeaderUserID, len(h.Values(HeaderUserID)))
	}
}

func TestStrip(t *testing.T) {
	h := http.Header{}
	Stamp(h, Identity{ID: 1, Email: "a@b.com", Role: RoleUser})
	h.Set("Authorization", "Bearer token")

	Strip(h)

	if _, ok := FromHeaders(h); ok {
		t.Error("FromHeaders() after Strip() returned ok = true")
	}
	if h.Get("Authorization") == "" {
		t.Error("Strip() removed unrelated headers")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "canonical scheme", value: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		// The scheme is case-insensitive: the same credential must parse
		// identically in every service.
		{name: "lowercase scheme", value: "bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "uppercase scheme", value: "BEARER abc.def.ghi", want: "abc.def.ghi"},
		{name: "surrounding whitespace", value: "Bearer  abc.def.ghi ", want: "abc.def.ghi"},
		{name: "no header", value: "", want: ""},
		{name: "wrong scheme", value: "Basic Zm9vOmJhcg==", want: ""},
		{name: "scheme only", value: "Bearer", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.value != "" {
				h.Set("Authorization", tt.value)
			}
			if got := BearerToken(h); got != tt.want {
				t.Errorf("BearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	if !(Identity{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin identity reported IsAdmin() = false")
	}
	if (Identity{Role: RoleModerator}).IsAdmin() {
		t.Error("moderator identity reported IsAdmin() = true")
	}
}
