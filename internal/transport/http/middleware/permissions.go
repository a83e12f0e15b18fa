package middleware

import (
	"context"
	"net/http"

	"paydesk/internal/transport/http/api"
)

// PermissionSource resolves a user's effective permission set (the union of
// the permissions of every active role assigned to the user).
type PermissionSource interface {
	PermissionsForUser(ctx context.Context, userID string) (map[string]struct{}, error)
}

// Guard builds permission filters bound to one PermissionSource, so route
// registrations only name the permissions they need.
type Guard struct {
	source PermissionSource
}

func NewGuard(source PermissionSource) *Guard {
	return &Guard{source: source}
}

type mode int

const (
	modeAll mode = iota
	modeAny
)

func (m mode) String() string {
	if m == modeAny {
		return "any"
	}
	return "all"
}

// RequireAll grants access only when the caller holds every named permission.
func (g *Guard) RequireAll(permissions ...string) func(http.Handler) http.Handler {
	return g.require(modeAll, permissions)
}

// RequireAny grants access when the caller holds at least one named
// permission.
func (g *Guard) RequireAny(permissions ...string) func(http.Handler) http.Handler {
	return g.require(modeAny, permissions)
}

// require panics on an empty permission list: that is a wiring mistake, and
// silently allowing everything would be far worse than failing at startup.
// Filters stacked on nested routers compose with AND semantics, since each
// one short-circuits independently.
func (g *Guard) require(m mode, permissions []string) func(http.Handler) http.Handler {
	if len(permissions) == 0 {
		panic("permission middleware configured without permissions")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}

			held, err := g.source.PermissionsForUser(r.Context(), user.UserID)
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", GetRequestID(r.Context()))
				return
			}

			if !satisfies(held, m, permissions) {
				api.FailWithDetails(w, http.StatusForbidden, "forbidden", "insufficient permissions", map[string]any{
					"requiredPermissions": permissions,
					"mode":                m.String(),
				}, GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func satisfies(held map[string]struct{}, m mode, required []string) bool {
	if m == modeAny {
		for _, perm := range required {
			if _, ok := held[perm]; ok {
				return true
			}
		}
		return false
	}
	for _, perm := range required {
		if _, ok := held[perm]; !ok {
			return false
		}
	}
	return true
}
