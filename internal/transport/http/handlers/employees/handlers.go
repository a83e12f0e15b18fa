package employeeshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/events"
	"paydesk/internal/domain/reports"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
	Events  *events.Service
	Reports *reports.Service
	Guard   *middleware.Guard
}

func NewHandler(service *employee.Service, eventLog *events.Service, reportSvc *reports.Service, guard *middleware.Guard) *Handler {
	return &Handler{Service: service, Events: eventLog, Reports: reportSvc, Guard: guard}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(h.Guard.RequireAny(auth.PermEmployeesRead, auth.PermSystemAdmin)).Get("/", h.handleList)
		r.With(h.Guard.RequireAll(auth.PermEmployeesWrite)).Post("/", h.handleCreate)
		r.With(h.Guard.RequireAny(auth.PermEmployeesRead, auth.PermSystemAdmin)).Get("/{id}", h.handleGet)
		r.With(h.Guard.RequireAll(auth.PermEmployeesWrite)).Put("/{id}", h.handleUpdate)
		r.With(h.Guard.RequireAll(auth.PermEmployeesWrite)).Delete("/{id}", h.handleDelete)
		r.With(h.Guard.RequireAny(auth.PermEventsRead, auth.PermSystemAdmin)).Get("/{id}/events", h.handleEvents)

		r.With(h.Guard.RequireAny(auth.PermEmployeesRead, auth.PermSystemAdmin)).Get("/{id}/contracts", h.handleListContracts)
		r.With(h.Guard.RequireAll(auth.PermEmployeesWrite)).Post("/{id}/contracts", h.handleCreateContract)
		r.With(h.Guard.RequireAll(auth.PermEmployeesWrite)).Put("/{id}/contracts/{contractId}", h.handleUpdateContract)

		r.With(h.Guard.RequireAny(auth.PermSalariesRead, auth.PermSystemAdmin)).Get("/{id}/salaries", h.handleListSalaries)
		r.With(h.Guard.RequireAll(auth.PermSalariesWrite)).Post("/{id}/salaries", h.handleCreateSalary)
		r.With(h.Guard.RequireAll(auth.PermSalariesWrite)).Put("/{id}/salaries/{salaryId}", h.handleUpdateSalary)
		r.With(h.Guard.RequireAny(auth.PermSalariesRead, auth.PermSystemAdmin)).Get("/{id}/salary-certificate", h.handleSalaryCertificate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	employees, err := h.Service.List(r.Context(), r.URL.Query().Get("companyId"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list employees", requestID)
		return
	}
	api.Success(w, employees, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	e, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	api.Success(w, e, requestID)
}

type employeeRequest struct {
	FirstName        *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName         *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email            *string `json:"email" validate:"omitempty,email"`
	HireDate         *string `json:"hireDate"`
	CompanyID        *string `json:"companyId" validate:"omitempty,uuid"`
	StatusID         *string `json:"statusId" validate:"omitempty,uuid"`
	CityID           *string `json:"cityId" validate:"omitempty,uuid"`
	NationalityID    *string `json:"nationalityId" validate:"omitempty,uuid"`
	MaritalStatusID  *string `json:"maritalStatusId" validate:"omitempty,uuid"`
	EducationLevelID *string `json:"educationLevelId" validate:"omitempty,uuid"`
	GenderID         *string `json:"genderId" validate:"omitempty,uuid"`
}

func (p employeeRequest) toInput() (employee.Input, error) {
	in := employee.Input{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Email:            p.Email,
		CompanyID:        p.CompanyID,
		StatusID:         p.StatusID,
		CityID:           p.CityID,
		NationalityID:    p.NationalityID,
		MaritalStatusID:  p.MaritalStatusID,
		EducationLevelID: p.EducationLevelID,
		GenderID:         p.GenderID,
	}
	if p.HireDate != nil {
		parsed, err := shared.ParseDate(*p.HireDate)
		if err != nil {
			return employee.Input{}, err
		}
		in.HireDate = &parsed
	}
	return in, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetUser(r.Context())

	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	in, err := payload.toInput()
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "hireDate must be RFC3339 or YYYY-MM-DD", requestID)
		return
	}

	created, err := h.Service.Create(r.Context(), in, principal.UserID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetUser(r.Context())

	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	in, err := payload.toInput()
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "hireDate must be RFC3339 or YYYY-MM-DD", requestID)
		return
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), in, principal.UserID)
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

	items, err := h.Events.ListEmployeeEvents(r.Context(), chi.URLParam(r, "id"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list employee events", requestID)
		return
	}
	api.Success(w, items, requestID)
}

func (h *Handler) handleListContracts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	contracts, err := h.Service.ListContracts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	api.Success(w, contracts, requestID)
}

type contractRequest struct {
	ContractType *string `json:"contractType" validate:"omitempty,min=1,max=50"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
}

func (h *Handler) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetUser(r.Context())

	var payload contractRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	contractType := ""
	if payload.ContractType != nil {
		contractType = *payload.ContractType
	}
	startDate, err := parseOptionalDate(payload.StartDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "startDate must be RFC3339 or YYYY-MM-DD", requestID)
		return
	}
	endDate, err := parseOptionalDate(payload.EndDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "endDate must be RFC3339 or YYYY-MM-DD", requestID)
		return
	}
	var start time.Time
	if startDate != nil {
		start = *startDate
	}

	created, err := h.Service.CreateContract(r.Context(), chi.URLParam(r, "id"), contractType, start, endDate, principal.UserID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleUpdateContract(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetUser(r.Context())

	var payload contractRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	startDate, err := parseOptionalDate(payload.StartDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "startDate must be RFC3339 or YYYY-MM-DD", requestID)
		return
	}
	endDate, err := parseOptionalDate(payload.EndDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "endDate must be RFC3339 or YYYY-MM-DD", requestID)
		return
	}

	updated, err := h.Service.UpdateContract(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "contractId"), payload.ContractType, startDate, endDate, principal.UserID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	api.Success(w, updated, requestID)
}

func (h *Handler) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	salaries, err := h.Service.ListSalaries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	api.Success(w, salaries, requestID)
}

type salaryRequest struct {
	Amount        *float64 `json:"amount" validate:"omitempty,gt=0"`
	Currency      *string  `json:"currency" validate:"omitempty,min=3,max=3"`
	EffectiveDate *string  `json:"effectiveDate"`
}

func (h *Handler) handleCreateSalary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetUser(r.Context())

	var payload salaryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	var amount float64
	if payload.Amount != nil {
		amount = *payload.Amount
	}
	currency := ""
	if payload.Currency != nil {
		currency = *payload.Currency
	}
	effectiveDate, err := parseOptionalDate(payload.EffectiveDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "effectiveDate must be RFC3339 or YYYY-MM-DD", requestID)
		return
	}
	var effective time.Time
	if effectiveDate != nil {
		effective = *effectiveDate
	}

	created, err := h.Service.CreateSalary(r.Context(), chi.URLParam(r, "id"), amount, currency, effective, principal.UserID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleUpdateSalary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal, _ := middleware.GetUser(r.Context())

	var payload salaryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if shared.ValidateStruct(w, payload, requestID) {
		return
	}

	effectiveDate, err := parseOptionalDate(payload.EffectiveDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "effectiveDate must be RFC3339 or YYYY-MM-DD", requestID)
		return
	}

	updated, err := h.Service.UpdateSalary(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "salaryId"), payload.Amount, payload.Currency, effectiveDate, principal.UserID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}
	api.Success(w, updated, requestID)
}

func (h *Handler) handleSalaryCertificate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	pdf, err := h.Reports.SalaryCertificate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="salary-certificate.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := shared.ParseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
	case errors.Is(err, employee.ErrContractNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "contract not found", requestID)
	case errors.Is(err, employee.ErrSalaryNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "salary not found", requestID)
	case errors.Is(err, employee.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "email_taken", "an employee with this email already exists", requestID)
	case errors.Is(err, employee.ErrMissingField):
		api.Fail(w, http.StatusBadRequest, "missing_field", "a required field is missing or invalid", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
