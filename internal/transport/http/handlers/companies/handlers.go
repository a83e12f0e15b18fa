package companieshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/company"
	"paydesk/internal/domain/events"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

type Handler struct {
	Service *company.Service
	Events  *events.Service
	Guard   *middleware.Guard
}

func NewHandler(service *company.Service, eventLog *events.Service, guard *middleware.Guard) *Handler {
	return &Handler{Service: service, Events: eventLog, Guard: guard}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/companies", func(r chi.Router) {
		r.With(h.Guard.RequireAny(auth.PermCompaniesRead, auth.PermSystemAdmin)).Get("/", h.handleList)
		r.With(h.Guard.RequireAll(auth.PermCompaniesWrite)).Post("/", h.handleCreate)
		r.With(h.Guard.RequireAny(auth.PermCompaniesRead, auth.PermSystemAdmin)).Get("/{id}", h.handleGet)
		r.With(h.Guard.RequireAll(auth.PermCompaniesWrite)).Put("/{id}", h.handleUpdate)
		r.With(h.Guard.RequireAll(auth.PermCompaniesWrite)).Delete("/{id}", h.handleDelete)
		r.With(h.Guard.RequireAny(auth.PermEventsRead, auth.PermSystemAdmin)).Get("/{id}/events", h.handleEvents)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companies, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list companies", requestID)
		return
	}
	api.Success(w, companies, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	c, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	api.Success(w, c, requestID)
}

type companyRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	CityID    *string `json:"cityId" validate:"omitempty,uuid"`
	CountryID *string `json:"countryId" validate:"omitempty,uuid"`
	StatusID  *string `json:"statusId" validate:"omitempty,uuid"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetUser(r.Context())

	var payload companyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	created, err := h.Service.Create(r.Context(), company.Input(payload), principal.UserID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetUser(r.Context())

	var payload companyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), company.Input(payload), principal.UserID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	api.Success(w, updated, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetUser(r.Context())

	err := h.Service.Delete(r.Context(), chi.URLParam(r, "id"), principal.UserID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	if _, err := h.Service.Get(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	items, err := h.Events.ListCompanyEvents(r.Context(), chi.URLParam(r, "id"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list company events", requestID)
		return
	}
	api.Success(w, items, requestID)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, company.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "company not found", requestID)
	case errors.Is(err, company.ErrNameTaken):
		api.Fail(w, http.StatusConflict, "name_taken", "a company with this name already exists", requestID)
	case errors.Is(err, company.ErrHasEmployees):
		api.Fail(w, http.StatusBadRequest, "has_employees", "company still has active employees", requestID)
	case errors.Is(err, company.ErrNameRequired):
		api.Fail(w, http.StatusBadRequest, "name_required", "company name is required", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
