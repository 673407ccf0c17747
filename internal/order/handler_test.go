// AngelaMos | 2026
// handler_test.go

package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/coderr-backend/internal/authz"
	"github.com/carterperez-dev/coderr-backend/internal/middleware"
)

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

// asCaller stands in for the authenticator and injects fixed claims.
func asCaller(c authz.Caller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &middleware.AccessTokenClaims{UserID: c.UserID, Role: c.Role, Staff: c.Staff}
			next.ServeHTTP(w, r.WithContext(middleware.WithClaims(r.Context(), claims)))
		})
	}
}

func newRouter(svc *Service, c authz.Caller) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, asCaller(c))
	return r
}

func TestPatchRejectsExtraFields(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), users)
	placeOrder(t, svc)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"status only", `{"status":"completed"}`, http.StatusOK},
		{"extra field", `{"status":"completed","price":"1.00"}`, http.StatusBadRequest},
		{"no status", `{"title":"x"}`, http.StatusBadRequest},
		{"bad status", `{"status":"shipped"}`, http.StatusBadRequest},
		{"not an object", `[1,2]`, http.StatusBadRequest},
	}

	router := newRouter(svc, business)
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPatch, "/orders/1", strings.NewReader(tt.body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != tt.code {
			t.Errorf("%s: status = %d, want %d (%s)", tt.name, rec.Code, tt.code, rec.Body)
		}
	}
}

func TestOrderCountEndpoints(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), users)
	placeOrder(t, svc)
	router := newRouter(svc, authz.Anonymous())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/order-count/2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Data OrderCountResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.OrderCount != 1 {
		t.Errorf("order_count = %d, want 1", body.Data.OrderCount)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/completed-order-count/404", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user: status = %d, want 404", rec.Code)
	}
}

func TestCreateOrderResponse(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), users)
	router := newRouter(svc, customer)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"offer_detail_id":7}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"price":100.00`) {
		t.Errorf("price not rendered with two decimals: %s", rec.Body)
	}
}
