package dashboardhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/dashboard"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
)

type Handler struct {
	Service *dashboard.Service
	Guard   *middleware.Guard
}

func NewHandler(service *dashboard.Service, guard *middleware.Guard) *Handler {
	return &Handler{Service: service, Guard: guard}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(h.Guard.RequireAny(auth.PermDashboardRead, auth.PermSystemAdmin)).Get("/dashboard/summary", h.handleSummary)
	r.With(h.Guard.RequireAny(auth.PermDashboardRead, auth.PermSystemAdmin)).Get("/dashboard/employees", h.handleDistribution)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "summary_failed", "failed to compute dashboard summary", requestID)
		return
	}
	api.Success(w, summary, requestID)
}

func (h *Handler) handleDistribution(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	buckets, err := h.Service.EmployeeDistribution(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "distribution_failed", "failed to compute employee distribution", requestID)
		return
	}
	api.Success(w, buckets, requestID)
}
