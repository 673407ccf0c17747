// AngelaMos | 2026
// handler.go

package order

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/coderr-backend/internal/core"
	"github.com/carterperez-dev/coderr-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Get("/orders/order-count/{userID}", h.OrderCount)
	r.Get("/orders/completed-order-count/{userID}", h.CompletedOrderCount)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/orders", h.List)
		r.Post("/orders", h.Create)
		r.Get("/orders/{orderID}", h.Get)
		r.Patch("/orders/{orderID}", h.UpdateStatus)
		r.Delete("/orders/{orderID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context(), middleware.GetCaller(r.Context()))
	if err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	core.OK(w, ToResponses(orders))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err, "order")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.HandleError(w, r, core.FromValidator(err), "order")
		return
	}

	order, err := h.service.Create(r.Context(), middleware.GetCaller(r.Context()), req.OfferDetailID)
	if err != nil {
		core.HandleError(w, r, err, "offer detail")
		return
	}

	core.Created(w, ToResponse(order))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "orderID", "order")
	if !ok {
		return
	}

	order, err := h.service.Get(r.Context(), middleware.GetCaller(r.Context()), id)
	if err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	core.OK(w, ToResponse(order))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "orderID", "order")
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := core.DecodeJSON(r, &body); err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	status, err := ParseStatusPatch(body)
	if err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), middleware.GetCaller(r.Context()), id, status)
	if err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	core.OK(w, ToResponse(order))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "orderID", "order")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetCaller(r.Context()), id); err != nil {
		core.HandleError(w, r, err, "order")
		return
	}

	core.NoContent(w)
}

func (h *Handler) OrderCount(w http.ResponseWriter, r *http.Request) {
	n, ok := h.count(w, r, StatusInProgress)
	if !ok {
		return
	}
	core.OK(w, OrderCountResponse{OrderCount: n})
}

func (h *Handler) CompletedOrderCount(w http.ResponseWriter, r *http.Request) {
	n, ok := h.count(w, r, StatusCompleted)
	if !ok {
		return
	}
	core.OK(w, CompletedOrderCountResponse{CompletedOrderCount: n})
}

func (h *Handler) count(w http.ResponseWriter, r *http.Request, status string) (int, bool) {
	id, ok := pathID(w, r, "userID", "business user")
	if !ok {
		return 0, false
	}

	n, err := h.service.CountByStatus(r.Context(), id, status)
	if err != nil {
		core.HandleError(w, r, err, "business user")
		return 0, false
	}
	return n, true
}

func pathID(w http.ResponseWriter, r *http.Request, param, resource string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id < 1 {
		core.NotFound(w, resource)
		return 0, false
	}
	return id, true
}
