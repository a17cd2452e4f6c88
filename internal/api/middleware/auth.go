package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ewhitmore/lawdesk/internal/service"
	"github.com/ewhitmore/lawdesk/internal/session"
	"github.com/google/uuid"
)

type contextKey string

const (
	claimsKey contextKey = "sessionClaims"
)

// RefreshedTokenHeader carries a reissued session token back to the client
// when the role cache went stale mid-session.
const RefreshedTokenHeader = "X-Session-Token"

func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := authService.ParseToken(parts[1])
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			// Stale tokens get their role re-read from the store; a
			// failure there keeps the cached claims.
			claims, token, refreshed := authService.RefreshClaims(r.Context(), claims)
			if refreshed {
				w.Header().Set(RefreshedTokenHeader, token)
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims returns the verified session claims for the request.
func GetClaims(ctx context.Context) (*session.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*session.Claims)
	return claims, ok
}

// GetUserID returns the authenticated user's id.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := GetClaims(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
