// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/carterperez-dev/coderr-backend/internal/authz"
	"github.com/carterperez-dev/coderr-backend/internal/core"
)

type fakeVerifier struct {
	tokens map[string]*AccessTokenClaims
	calls  int
}

func (f *fakeVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*AccessTokenClaims, error) {
	f.calls++
	switch token {
	case "expired":
		return nil, fmt.Errorf("parse token: %w", core.ErrTokenExpired)
	case "revoked":
		return nil, fmt.Errorf("verify: %w", core.ErrTokenRevoked)
	}
	if c, ok := f.tokens[token]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("parse token: %w", core.ErrTokenInvalid)
}

func newVerifier() *fakeVerifier {
	return &fakeVerifier{tokens: map[string]*AccessTokenClaims{
		"good":  {UserID: 7, Role: authz.RoleBusiness},
		"staff": {UserID: 9, Role: authz.RoleCustomer, Staff: true},
	}}
}

// echoCaller writes the caller's id so tests can see what reached the handler.
var echoCaller = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, GetUserID(r.Context()))
})

func request(auth string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return req
}

func TestAuthenticator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"bearer", "Bearer good", http.StatusOK, "7"},
		{"token scheme", "Token good", http.StatusOK, "7"},
		{"lowercase scheme", "bearer good", http.StatusOK, "7"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"unknown scheme", "Basic good", http.StatusUnauthorized, ""},
		{"expired", "Bearer expired", http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"revoked", "Bearer revoked", http.StatusUnauthorized, "TOKEN_REVOKED"},
		{"garbage", "Bearer nope", http.StatusUnauthorized, "TOKEN_INVALID"},
	}

	handler := Authenticator(newVerifier())(echoCaller)
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, request(tt.header))

		if rec.Code != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.code)
		}
		if tt.body != "" && !strings.Contains(rec.Body.String(), tt.body) {
			t.Errorf("%s: body %q lacks %q", tt.name, rec.Body, tt.body)
		}
	}
}

func TestAuthenticatorReusesOptionalClaims(t *testing.T) {
	t.Parallel()

	v := newVerifier()
	handler := OptionalAuth(v)(Authenticator(v)(echoCaller))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("Bearer good"))

	if rec.Code != http.StatusOK || rec.Body.String() != "7" {
		t.Fatalf("status = %d body = %q", rec.Code, rec.Body)
	}
	if v.calls != 1 {
		t.Errorf("token verified %d times, want 1", v.calls)
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()

	handler := OptionalAuth(newVerifier())(echoCaller)

	for _, tt := range []struct {
		header string
		want   string
	}{
		{"Bearer good", "7"},
		{"", "0"},
		{"Bearer nope", "0"},
		{"Bearer expired", "0"},
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, request(tt.header))

		if rec.Code != http.StatusOK {
			t.Errorf("%q: status = %d", tt.header, rec.Code)
		}
		if rec.Body.String() != tt.want {
			t.Errorf("%q: caller = %s, want %s", tt.header, rec.Body, tt.want)
		}
	}
}

func TestRequireStaff(t *testing.T) {
	t.Parallel()

	v := newVerifier()
	handler := OptionalAuth(v)(RequireStaff(echoCaller))

	for _, tt := range []struct {
		header string
		code   int
	}{
		{"Bearer staff", http.StatusOK},
		{"Bearer good", http.StatusForbidden},
		{"", http.StatusUnauthorized},
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, request(tt.header))
		if rec.Code != tt.code {
			t.Errorf("%q: status = %d, want %d", tt.header, rec.Code, tt.code)
		}
	}
}

func TestGetCallerDefaultsToAnonymous(t *testing.T) {
	t.Parallel()

	c := GetCaller(context.Background())
	if c.Authenticated() {
		t.Errorf("caller = %+v, want anonymous", c)
	}
	if GetClaims(context.Background()) != nil {
		t.Error("claims present on empty context")
	}

	ctx := WithClaims(context.Background(), &AccessTokenClaims{
		UserID: 3,
		Role:   authz.RoleCustomer,
		Staff:  true,
	})
	got := GetCaller(ctx)
	if got.UserID != 3 || got.Role != authz.RoleCustomer || !got.Staff {
		t.Errorf("caller = %+v", got)
	}
}
