package middleware

import (
	"context"
	"net/http"
	"strings"

	"mindgauge/internal/model"
	"mindgauge/internal/service"
)

type contextKey string

const claimsKey contextKey = "claims"

// AuthMiddleware validates JWTs and gates routes by role
type AuthMiddleware struct {
	authSvc *service.AuthService
}

func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireAuth accepts any valid token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.require(next, func(model.Role) bool { return true })
}

// RequireReviewer accepts counselor and admin tokens
func (m *AuthMiddleware) RequireReviewer(next http.Handler) http.Handler {
	return m.require(next, func(r model.Role) bool { return r.IsReviewer() })
}

// RequireAdmin accepts admin tokens only
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.require(next, func(r model.Role) bool { return r == model.RoleAdmin })
}

func (m *AuthMiddleware) require(next http.Handler, allowed func(model.Role) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			// WebSocket clients pass the token as a query param
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}
		if !allowed(claims.Role) {
			http.Error(w, `{"error":"insufficient role"}`, http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaims extracts the validated claims from the request context
func GetClaims(ctx context.Context) *model.Claims {
	if v := ctx.Value(claimsKey); v != nil {
		return v.(*model.Claims)
	}
	return nil
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
