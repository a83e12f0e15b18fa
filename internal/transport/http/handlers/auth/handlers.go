package authhandler

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/auth"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

type Handler struct {
	Service  *auth.Service
	Secret   string
	TokenTTL time.Duration
}

func NewHandler(service *auth.Service, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{Service: service, Secret: secret, TokenTTL: tokenTTL}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Get("/me", h.handleMe)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	user, err := h.Service.FindActiveUserByEmail(r.Context(), payload.Email)
	if err != nil || auth.CheckPassword(user.PasswordHash, payload.Password) != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: user.ID, Email: user.Email}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}

	// Last-login is advisory; a failed update must not block the login.
	_ = h.Service.UpdateLastLogin(r.Context(), user.ID)

	api.Success(w, map[string]any{"token": token, "expiresIn": int(h.TokenTTL.Seconds())}, requestID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	principal, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	user, err := h.Service.GetUser(r.Context(), principal.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	roles, err := h.Service.UserRoleNames(r.Context(), principal.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "me_failed", "failed to load profile", requestID)
		return
	}
	permSet, err := h.Service.PermissionsForUser(r.Context(), principal.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "me_failed", "failed to load profile", requestID)
		return
	}
	permissions := make([]string, 0, len(permSet))
	for perm := range permSet {
		permissions = append(permissions, perm)
	}
	sort.Strings(permissions)

	api.Success(w, map[string]any{
		"user":        user,
		"roles":       roles,
		"permissions": permissions,
	}, requestID)
}
