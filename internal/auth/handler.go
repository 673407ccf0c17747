// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"

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
	r.Post("/registration", h.Register)
	r.Post("/login", h.Login)
	r.Post("/token/refresh", h.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/me", h.Me)
		r.Post("/logout", h.Logout)
		r.Post("/logout-all", h.LogoutAll)
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := core.DecodeJSON(r, dst); err != nil {
		core.HandleError(w, r, err, "user")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		core.HandleError(w, r, core.FromValidator(err), "user")
		return false
	}
	return true
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req, clientFrom(r))
	if err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req, clientFrom(r))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.BadRequest(w, "invalid login credentials")
			return
		}
		core.HandleError(w, r, err, "user")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken, clientFrom(r))
	if err != nil {
		if errors.Is(err, ErrTokenReuse) {
			core.JSONError(w, core.NewAppError(
				core.ErrTokenRevoked,
				"token reuse detected, all sessions in this chain were revoked",
				http.StatusUnauthorized,
				"TOKEN_REUSE_DETECTED",
			))
			return
		}
		core.HandleError(w, r, err, "token")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.Unauthorized(w, "")
		return
	}

	// The body is optional; a bare logout only blacklists the access token.
	var req RefreshRequest
	if r.ContentLength != 0 {
		if err := core.DecodeJSON(r, &req); err != nil {
			core.HandleError(w, r, err, "token")
			return
		}
	}

	if err := h.service.Logout(r.Context(), claims, req.RefreshToken); err != nil {
		core.HandleError(w, r, err, "token")
		return
	}

	core.NoContent(w)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetCaller(r.Context())
	if err := h.service.LogoutAll(r.Context(), caller.UserID); err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	me, err := h.service.Me(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.HandleError(w, r, err, "user")
		return
	}

	core.OK(w, me)
}

func clientFrom(r *http.Request) clientInfo {
	return clientInfo{
		userAgent: r.UserAgent(),
		ipAddress: middleware.ClientIP(r),
	}
}
