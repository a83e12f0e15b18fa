package referentialhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/referential"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

type Handler struct {
	Service *referential.Service
	Guard   *middleware.Guard
}

func NewHandler(service *referential.Service, guard *middleware.Guard) *Handler {
	return &Handler{Service: service, Guard: guard}
}

// RegisterRoutes mounts one uniform CRUD surface per lookup kind, e.g.
// /countries, /cities, /marital-statuses.
func (h *Handler) RegisterRoutes(r chi.Router) {
	for _, kind := range referential.Kinds {
		kind := kind
		r.Route("/"+kind.Path, func(r chi.Router) {
			r.With(h.Guard.RequireAny(auth.PermReferentialRead, auth.PermSystemAdmin)).Get("/", h.handleList(kind))
			r.With(h.Guard.RequireAll(auth.PermReferentialWrite)).Post("/", h.handleCreate(kind))
			r.With(h.Guard.RequireAny(auth.PermReferentialRead, auth.PermSystemAdmin)).Get("/{id}", h.handleGet(kind))
			r.With(h.Guard.RequireAll(auth.PermReferentialWrite)).Put("/{id}", h.handleUpdate(kind))
			r.With(h.Guard.RequireAll(auth.PermReferentialWrite)).Delete("/{id}", h.handleDelete(kind))
		})
	}
}

func (h *Handler) handleList(kind referential.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())

		items, err := h.Service.List(r.Context(), kind)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list "+kind.Label+" entries", requestID)
			return
		}
		api.Success(w, items, requestID)
	}
}

func (h *Handler) handleGet(kind referential.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())

		item, err := h.Service.Get(r.Context(), kind, chi.URLParam(r, "id"))
		if err != nil {
			h.writeError(w, kind, err, requestID)
			return
		}
		api.Success(w, item, requestID)
	}
}

type itemRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

func (h *Handler) handleCreate(kind referential.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())
		principal, _ := middleware.GetUser(r.Context())

		var payload itemRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
			return
		}
		if shared.ValidateStruct(w, payload, requestID) {
			return
		}

		item, err := h.Service.Create(r.Context(), kind, payload.Name, principal.UserID)
		if err != nil {
			h.writeError(w, kind, err, requestID)
			return
		}
		api.Created(w, item, requestID)
	}
}

type itemUpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

func (h *Handler) handleUpdate(kind referential.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())
		principal, _ := middleware.GetUser(r.Context())

		var payload itemUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
			return
		}
		if shared.ValidateStruct(w, payload, requestID) {
			return
		}

		item, err := h.Service.Update(r.Context(), kind, chi.URLParam(r, "id"), payload.Name, principal.UserID)
		if err != nil {
			h.writeError(w, kind, err, requestID)
			return
		}
		api.Success(w, item, requestID)
	}
}

func (h *Handler) handleDelete(kind referential.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())
		principal, _ := middleware.GetUser(r.Context())

		err := h.Service.Delete(r.Context(), kind, chi.URLParam(r, "id"), principal.UserID)
		if err != nil {
			h.writeError(w, kind, err, requestID)
			return
		}
		api.NoContent(w)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, kind referential.Kind, err error, requestID string) {
	switch {
	case errors.Is(err, referential.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", kind.Label+" not found", requestID)
	case errors.Is(err, referential.ErrNameTaken):
		api.Fail(w, http.StatusConflict, "name_taken", "a "+kind.Label+" with this name already exists", requestID)
	case errors.Is(err, referential.ErrHasDependents):
		api.Fail(w, http.StatusBadRequest, "in_use", kind.Label+" is referenced by active records", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
