// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.GetList)
		r.Post("/", h.Add)
		r.Put("/", h.Update)
		r.Get("/by-mail", h.GetByMail)
		r.Delete("/by-mail", h.DeleteByMail)
		r.Post("/activate", h.Activate)
		r.Get("/{userID}", h.GetByID)
		r.Delete("/{userID}", h.DeleteByID)
		r.Get("/{userID}/claims", h.GetClaims)
	})
}

func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	req := core.PageRequest{
		PageIndex: parseIntQuery(r, "page_index", 0),
		PageSize:  parseIntQuery(r, "page_size", core.DefaultPageSize),
	}

	page, err := h.service.GetList(r.Context(), req)
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.Paginated(w, page)
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	u, err := h.service.Add(r.Context(), req)
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.Created(w, u)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	u, err := h.service.Update(r.Context(), req)
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.OK(w, u)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.OK(w, u)
}

func (h *Handler) GetByMail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		core.BadRequest(w, "email is required")
		return
	}

	u, err := h.service.GetByMailUser(r.Context(), email)
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.OK(w, u)
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		core.BadRequest(w, "email is required")
		return
	}

	ok, err := h.service.Activate(r.Context(), email)
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.OK(w, ok)
}

func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DeleteByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) DeleteByMail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		core.BadRequest(w, "email is required")
		return
	}

	resp, err := h.service.DeleteByMail(r.Context(), email)
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) GetClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.service.GetClaims(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.OK(w, claims)
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
