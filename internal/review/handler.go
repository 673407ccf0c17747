// AngelaMos | 2026
// handler.go

package review

import (
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
	r.Get("/reviews", h.List)
	r.Get("/reviews/summary/{userID}", h.Summary)
	r.Get("/reviews/{reviewID}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/reviews", h.Create)
		r.Patch("/reviews/{reviewID}", h.Update)
		r.Delete("/reviews/{reviewID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.List(r.Context(), ParseListParams(r.URL.Query()))
	if err != nil {
		core.HandleError(w, r, err, "review")
		return
	}

	core.OK(w, ToResponses(reviews))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "reviewID", "review")
	if !ok {
		return
	}

	rev, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.HandleError(w, r, err, "review")
		return
	}

	core.OK(w, ToResponse(rev))
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID", "business user")
	if !ok {
		return
	}

	summary, err := h.service.Summarize(r.Context(), id)
	if err != nil {
		core.HandleError(w, r, err, "business user")
		return
	}

	core.OK(w, summary)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err, "review")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.HandleError(w, r, core.FromValidator(err), "review")
		return
	}

	rev, err := h.service.Create(r.Context(), middleware.GetCaller(r.Context()), req)
	if err != nil {
		core.HandleError(w, r, err, "business user")
		return
	}

	core.Created(w, ToResponse(rev))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "reviewID", "review")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err, "review")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.HandleError(w, r, core.FromValidator(err), "review")
		return
	}

	rev, err := h.service.Update(r.Context(), middleware.GetCaller(r.Context()), id, req)
	if err != nil {
		core.HandleError(w, r, err, "review")
		return
	}

	core.OK(w, ToResponse(rev))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "reviewID", "review")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetCaller(r.Context()), id); err != nil {
		core.HandleError(w, r, err, "review")
		return
	}

	core.NoContent(w)
}

func pathID(w http.ResponseWriter, r *http.Request, param, resource string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id < 1 {
		core.NotFound(w, resource)
		return 0, false
	}
	return id, true
}
