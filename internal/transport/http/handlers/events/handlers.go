package eventshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/events"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

type Handler struct {
	Service *events.Service
	Guard   *middleware.Guard
}

func NewHandler(service *events.Service, guard *middleware.Guard) *Handler {
	return &Handler{Service: service, Guard: guard}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(h.Guard.RequireAny(auth.PermEventsRead, auth.PermSystemAdmin)).Get("/events", h.handleFeed)
}

// handleFeed serves the merged company and employee audit trail, newest first.
func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	items, err := h.Service.MergedFeed(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "feed_failed", "failed to load event feed", requestID)
		return
	}
	api.Success(w, items, requestID)
}
