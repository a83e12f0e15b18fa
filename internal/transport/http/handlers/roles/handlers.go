package roleshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"paydesk/internal/domain/auth"
	"paydesk/internal/platform/password"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
	Guard   *middleware.Guard
}

func NewHandler(service *auth.Service, guard *middleware.Guard) *Handler {
	return &Handler{Service: service, Guard: guard}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(h.Guard.RequireAny(auth.PermRolesRead, auth.PermSystemAdmin)).Get("/permissions", h.handleListPermissions)

	r.With(h.Guard.RequireAny(auth.PermRolesRead, auth.PermSystemAdmin)).Get("/roles", h.handleListRoles)
	r.With(h.Guard.RequireAll(auth.PermRolesWrite)).Post("/roles", h.handleCreateRole)
	r.With(h.Guard.RequireAny(auth.PermRolesRead, auth.PermSystemAdmin)).Get("/roles/{id}", h.handleGetRole)
	r.With(h.Guard.RequireAll(auth.PermRolesWrite)).Put("/roles/{id}", h.handleUpdateRole)
	r.With(h.Guard.RequireAll(auth.PermRolesWrite)).Delete("/roles/{id}", h.handleDeleteRole)
	r.With(h.Guard.RequireAll(auth.PermRolesWrite)).Put("/roles/{id}/permissions", h.handleReplaceRolePermissions)

	r.With(h.Guard.RequireAll(auth.PermUsersWrite)).Post("/users", h.handleCreateUser)
	r.With(h.Guard.RequireAll(auth.PermUsersWrite, auth.PermRolesWrite)).Put("/users/{id}/roles", h.handleReplaceUserRoles)
}

func (h *Handler) handleListPermissions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	permissions, err := h.Service.ListPermissions(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list permissions", requestID)
		return
	}
	api.Success(w, permissions, requestID)
}

func (h *Handler) handleListRoles(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	roles, err := h.Service.ListRoles(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list roles", requestID)
		return
	}
	api.Success(w, roles, requestID)
}

type roleRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (h *Handler) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetUser(r.Context())

	var payload roleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	id, err := h.Service.CreateRole(r.Context(), payload.Name, payload.Description, principal.UserID)
	if err != nil {
		h.writeRoleError(w, err, requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleGetRole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	role, permissions, err := h.Service.GetRole(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeRoleError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"role": role, "permissions": permissions}, requestID)
}

type roleUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

func (h *Handler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetUser(r.Context())

	var payload roleUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	err := h.Service.UpdateRole(r.Context(), chi.URLParam(r, "id"), payload.Name, payload.Description, principal.UserID)
	if err != nil {
		h.writeRoleError(w, err, requestID)
		return
	}
	api.Success(w, map[string]string{"id": chi.URLParam(r, "id")}, requestID)
}

func (h *Handler) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetUser(r.Context())

	err := h.Service.DeleteRole(r.Context(), chi.URLParam(r, "id"), principal.UserID)
	if err != nil {
		h.writeRoleError(w, err, requestID)
		return
	}
	api.NoContent(w)
}

type rolePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

func (h *Handler) handleReplaceRolePermissions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload rolePermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	err := h.Service.ReplaceRolePermissions(r.Context(), chi.URLParam(r, "id"), payload.Permissions)
	if err != nil {
		h.writeRoleError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"id": chi.URLParam(r, "id"), "permissions": payload.Permissions}, requestID)
}

type createUserRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	FirstName string   `json:"firstName" validate:"required,max=100"`
	LastName  string   `json:"lastName" validate:"required,max=100"`
	RoleIDs   []string `json:"roleIds" validate:"omitempty,dive,uuid"`
}

// handleCreateUser provisions an account with a generated temporary password.
// The password is returned once in the response and never stored in clear.
func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	tempPassword, err := password.Generate(12)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create user", requestID)
		return
	}
	hash, err := auth.HashPassword(tempPassword)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create user", requestID)
		return
	}

	id, err := h.Service.CreateUser(r.Context(), payload.Email, payload.FirstName, payload.LastName, hash)
	if err != nil {
		if isUniqueViolation(err) {
			api.Fail(w, http.StatusConflict, "email_taken", "a user with this email already exists", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create user", requestID)
		return
	}

	if len(payload.RoleIDs) > 0 {
		if err := h.Service.ReplaceUserRoles(r.Context(), id, payload.RoleIDs); err != nil {
			h.writeRoleError(w, err, requestID)
			return
		}
	}

	api.Created(w, map[string]string{"id": id, "temporaryPassword": tempPassword}, requestID)
}

type userRolesRequest struct {
	RoleIDs []string `json:"roleIds" validate:"required,dive,uuid"`
}

func (h *Handler) handleReplaceUserRoles(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload userRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	userID := chi.URLParam(r, "id")
	if _, err := h.Service.GetUser(r.Context(), userID); err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
		return
	}

	err := h.Service.ReplaceUserRoles(r.Context(), userID, payload.RoleIDs)
	if err != nil {
		h.writeRoleError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"id": userID, "roleIds": payload.RoleIDs}, requestID)
}

// isUniqueViolation reports whether err is a postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (h *Handler) writeRoleError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, auth.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "role not found", requestID)
	case errors.Is(err, auth.ErrNameTaken):
		api.Fail(w, http.StatusConflict, "name_taken", "a role with this name already exists", requestID)
	case errors.Is(err, auth.ErrRoleInUse):
		api.Fail(w, http.StatusBadRequest, "role_in_use", "role is assigned to active users", requestID)
	case errors.Is(err, auth.ErrUnknownPermission):
		api.Fail(w, http.StatusBadRequest, "unknown_permission", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
