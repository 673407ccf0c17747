// AngelaMos | 2026
// handler.go

package user

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
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/profile/{userID}", h.GetProfile)
		r.Patch("/profile/{userID}", h.UpdateProfile)
		r.Get("/profiles/business", h.ListBusinessProfiles)
		r.Get("/profiles/customer", h.ListCustomerProfiles)
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.OK(w, ToProfileResponse(user))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.HandleError(w, r, core.FromValidator(err), "user")
		return
	}

	caller := middleware.GetCaller(r.Context())
	user, err := h.service.UpdateProfile(r.Context(), caller, id, req)
	if err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.OK(w, ToProfileResponse(user))
}

func (h *Handler) ListBusinessProfiles(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListProfiles(r.Context(), TypeBusiness)
	if err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.OK(w, ToBusinessProfiles(users))
}

func (h *Handler) ListCustomerProfiles(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListProfiles(r.Context(), TypeCustomer)
	if err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.OK(w, ToCustomerProfiles(users))
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id < 1 {
		core.NotFound(w, "user")
		return 0, false
	}
	return id, true
}
