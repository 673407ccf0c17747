// AngelaMos | 2026
// handler.go

package offer

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

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
	r.Get("/offers", h.List)
	r.Get("/offers/{offerID}", h.Get)
	r.Get("/offerdetails/{detailID}", h.GetDetail)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/offers", h.Create)
		r.Patch("/offers/{offerID}", h.Update)
		r.Delete("/offers/{offerID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ParseListParams(r.URL.Query())

	offers, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.HandleError(w, r, err, "offer")
		return
	}

	params.Normalize()
	core.Paginated(w, ToListResponses(offers), params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "offerID", "offer")
	if !ok {
		return
	}

	offer, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.HandleError(w, r, err, "offer")
		return
	}

	core.OK(w, ToFullResponse(offer))
}

func (h *Handler) GetDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "detailID", "offer detail")
	if !ok {
		return
	}

	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		core.HandleError(w, r, err, "offer detail")
		return
	}

	core.OK(w, ToDetailResponse(detail))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOfferRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err, "offer")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.HandleError(w, r, core.FromValidator(err), "offer")
		return
	}

	offer, err := h.service.Create(r.Context(), middleware.GetCaller(r.Context()), req)
	if err != nil {
		core.HandleError(w, r, err, "offer")
		return
	}

	core.Created(w, ToFullResponse(offer))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "offerID", "offer")
	if !ok {
		return
	}

	var req UpdateOfferRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err, "offer")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.HandleError(w, r, core.FromValidator(err), "offer")
		return
	}

	offer, err := h.service.Update(r.Context(), middleware.GetCaller(r.Context()), id, req)
	if err != nil {
		core.HandleError(w, r, err, "offer")
		return
	}

	core.OK(w, ToFullResponse(offer))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "offerID", "offer")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetCaller(r.Context()), id); err != nil {
		core.HandleError(w, r, err, "offer")
		return
	}

	core.NoContent(w)
}

// ParseListParams reads list filters from the query string. Values that
// do not parse are ignored.
func ParseListParams(q url.Values) ListParams {
	params := ListParams{
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
	}

	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil {
		params.PageSize = n
	}
	if n, err := strconv.ParseInt(q.Get("creator_id"), 10, 64); err == nil {
		params.CreatorID = &n
	}
	if d, err := decimal.NewFromString(q.Get("min_price")); err == nil {
		params.MinPrice = &d
	}
	if n, err := strconv.Atoi(q.Get("max_delivery_time")); err == nil {
		params.MaxDeliveryTime = &n
	}

	return params
}

func pathID(w http.ResponseWriter, r *http.Request, param, resource string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id < 1 {
		core.NotFound(w, resource)
		return 0, false
	}
	return id, true
}
