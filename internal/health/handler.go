// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

const probeTimeout = 5 * time.Second

type Checker interface {
	Ping(ctx context.Context) error
}

// Probe is one named dependency checked by the readiness endpoint.
type Probe struct {
	Name    string
	Checker Checker
}

type Handler struct {
	probes   []Probe
	ready    atomic.Bool
	shutdown atomic.Bool
}

// NewHandler reports not ready until SetReady(true) is called.
func NewHandler(probes ...Probe) *Handler {
	return &Handler{probes: probes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.shutdown.Load() {
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{Status: "shutting_down"})
		return
	}
	writeStatus(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Readiness pings every probe concurrently and reports 503 when any of
// them fails or the server is draining.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch {
	case h.shutdown.Load():
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{Status: "shutting_down"})
		return
	case !h.ready.Load():
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{Status: "not_ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	checks := h.run(ctx)

	status, code := "ok", http.StatusOK
	for _, c := range checks {
		if !c.Healthy {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	writeStatus(w, code, ReadinessResponse{Status: status, Checks: checks})
}

func (h *Handler) run(ctx context.Context) []HealthCheck {
	checks := make([]HealthCheck, len(h.probes))

	var wg sync.WaitGroup
	for i, p := range h.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checks[i] = check(ctx, p)
		}()
	}
	wg.Wait()

	return checks
}

func check(ctx context.Context, p Probe) HealthCheck {
	hc := HealthCheck{Name: p.Name, Healthy: true}
	if p.Checker == nil {
		hc.Healthy = false
		hc.Message = p.Name + " checker not configured"
		return hc
	}

	start := time.Now()
	err := p.Checker.Ping(ctx)
	hc.Latency = time.Since(start).String()
	if err != nil {
		hc.Healthy = false
		hc.Message = "ping failed"
	}

	return hc
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// SetShutdown implements server.ShutdownNotifier.
func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func writeStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	core.JSON(w, status, data)
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
