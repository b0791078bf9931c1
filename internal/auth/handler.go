// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/user-backend/internal/authctx"
	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /auth. loginLimiter wraps the credential endpoints
// and may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	loginLimiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if loginLimiter != nil {
				r.Use(loginLimiter)
			}
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.Me)
			r.Post("/change-password", h.ChangePassword)
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	user, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	token, err := h.service.CreateAccessToken(r.Context(), *user)
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.OK(w, AuthResponse{User: ToUserResponse(user), Token: token})
}

// Register answers 201 with the new account, or 200 with no data when the
// email is already taken.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	if user == nil {
		core.OK(w, nil)
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := authctx.UserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	req.UserID = userID

	if err := h.service.ChangePassword(r.Context(), req); err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.NoContent(w)
}

type meResponse struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Claims []string `json:"claims"`
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := authctx.From(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	core.OK(w, meResponse{UserID: p.UserID, Email: p.Email, Claims: p.Claims})
}
