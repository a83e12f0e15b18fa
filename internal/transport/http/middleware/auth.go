package middleware

import (
	"context"
	"net/http"
	"strings"

	"paydesk/internal/domain/auth"
)

type ctxKey int

const ctxKeyUser ctxKey = iota

// Principal is the authenticated caller as derived from the bearer token.
type Principal struct {
	UserID string
	Email  string
}

// Auth parses a bearer token into the request context. Requests without a
// valid token pass through unauthenticated; enforcement happens in the
// permission middleware.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, Principal{
				UserID: claims.UserID,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (Principal, bool) {
	user, ok := ctx.Value(ctxKeyUser).(Principal)
	return user, ok
}
