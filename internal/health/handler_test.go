// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	up   = pingFunc(func(context.Context) error { return nil })
	down = pingFunc(func(context.Context) error { return errors.New("refused") })
)

func readyHandler(probes ...Probe) *Handler {
	h := NewHandler(probes...)
	h.SetReady(true)
	return h
}

func readiness(t *testing.T, h *Handler) (int, ReadinessResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body ReadinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, body
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	code, body := readiness(t, readyHandler(Probe{"database", up}, Probe{"redis", up}))
	if code != http.StatusOK || body.Status != "ok" || len(body.Checks) != 2 {
		t.Fatalf("healthy: %d %+v", code, body)
	}

	code, body = readiness(t, readyHandler(Probe{"database", up}, Probe{"redis", down}))
	if code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("degraded: %d %+v", code, body)
	}
	if body.Checks[1].Name != "redis" || body.Checks[1].Healthy {
		t.Errorf("redis check = %+v", body.Checks[1])
	}
}

func TestNotReadyUntilStarted(t *testing.T) {
	t.Parallel()

	h := NewHandler(Probe{"database", up})
	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status before SetReady = %d, want 503", rec.Code)
	}
}

func TestShutdownFailsProbes(t *testing.T) {
	t.Parallel()

	h := readyHandler(Probe{"database", up})
	h.SetShutdown(true)

	for _, fn := range []http.HandlerFunc{h.Liveness, h.Readiness} {
		rec := httptest.NewRecorder()
		fn(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	}
}
