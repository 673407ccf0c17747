// AngelaMos | 2026
// headers_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carterperez-dev/coderr-backend/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func corsConfig() config.CORSConfig {
	return config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:5500"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	handler := CORS(corsConfig())(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/offers", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	h := rec.Header()
	if got := h.Get("Access-Control-Allow-Origin"); got != "http://localhost:5500" {
		t.Errorf("allow-origin = %q", got)
	}
	if got := h.Get("Access-Control-Allow-Methods"); got != "GET, POST" {
		t.Errorf("allow-methods = %q", got)
	}
	if got := h.Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("allow-credentials = %q", got)
	}
	if got := h.Get("Access-Control-Max-Age"); got != "300" {
		t.Errorf("max-age = %q", got)
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	t.Parallel()

	handler := CORS(corsConfig())(okHandler)

	preflight := httptest.NewRequest(http.MethodOptions, "/api/offers", nil)
	preflight.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, preflight)
	if rec.Code != http.StatusForbidden {
		t.Errorf("preflight status = %d, want 403", rec.Code)
	}

	simple := httptest.NewRequest(http.MethodGet, "/api/offers", nil)
	simple.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, simple)
	if rec.Code != http.StatusOK {
		t.Errorf("simple status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin leaked: %q", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	for _, production := range []bool{false, true} {
		rec := httptest.NewRecorder()
		SecurityHeaders(production)(okHandler).ServeHTTP(
			rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("nosniff = %q", got)
		}
		hsts := rec.Header().Get("Strict-Transport-Security")
		if production && hsts == "" {
			t.Error("production response lacks HSTS")
		}
		if !production && hsts != "" {
			t.Error("development response sets HSTS")
		}
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("propagated id = %q / %q", seen, rec.Header().Get(RequestIDHeader))
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(seen) != 36 {
		t.Errorf("minted id = %q, want a uuid", seen)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "10.0.0.1:5000", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "1.2.3.4"}, "10.0.0.1:5000", "1.2.3.4"},
		{
			"last forwarded hop",
			map[string]string{"X-Forwarded-For": "6.6.6.6, 5.5.5.5"},
			"10.0.0.1:5000",
			"5.5.5.5",
		},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		for k, v := range tt.headers {
			req.Header.Set(k, v)
		}
		if got := ClientIP(req); got != tt.want {
			t.Errorf("%s: ClientIP = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestKeyByUser(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	if got := KeyByUser(req); got != "ratelimit:ip:10.0.0.1" {
		t.Errorf("anonymous key = %q", got)
	}

	req = req.WithContext(WithClaims(req.Context(), &AccessTokenClaims{UserID: 42}))
	if got := KeyByUser(req); got != "ratelimit:user:42" {
		t.Errorf("authenticated key = %q", got)
	}
}
