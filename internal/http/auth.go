package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"insaka-backend-go/internal/services"
)

type contextKey string

const (
	ctxDelegateID   contextKey = "delegateID"
	ctxDelegateName contextKey = "delegateName"
	ctxRoles        contextKey = "roles"
)

func WithAuth(tokenService services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			delegateID, name, roles, ok := parseAccessToken(tokenService, tokenStr)
			if !ok {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			ctx := context.WithValue(r.Context(), ctxDelegateID, delegateID)
			ctx = context.WithValue(ctx, ctxDelegateName, name)
			ctx = context.WithValue(ctx, ctxRoles, roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseAccessToken(tokenService services.TokenService, tokenStr string) (int64, string, []string, bool) {
	token, claims, err := tokenService.ParseToken(tokenStr)
	if err != nil || !token.Valid || claims["typ"] != "access" {
		return 0, "", nil, false
	}
	subject, _ := claims["sub"].(string)
	delegateID, _ := strconv.ParseInt(subject, 10, 64)
	name, _ := claims["name"].(string)
	roles := []string{}
	if rawRoles, ok := claims["roles"].([]interface{}); ok {
		for _, raw := range rawRoles {
			if role, ok := raw.(string); ok {
				roles = append(roles, role)
			}
		}
	}
	// Admin console sessions carry no delegate subject.
	if delegateID == 0 && !hasRole(roles, "ADMIN") {
		return 0, "", nil, false
	}
	return delegateID, name, roles, true
}

// CurrentDelegateID returns the authenticated delegate's id, or 0 for
// an admin console session.
func CurrentDelegateID(r *http.Request) int64 {
	if value, ok := r.Context().Value(ctxDelegateID).(int64); ok {
		return value
	}
	return 0
}

func CurrentDelegateName(r *http.Request) string {
	if value, ok := r.Context().Value(ctxDelegateName).(string); ok {
		return value
	}
	return ""
}

func CurrentRoles(r *http.Request) []string {
	if value, ok := r.Context().Value(ctxRoles).([]string); ok {
		return value
	}
	return nil
}

func RequireRole(role string) func(http.Handler) http.Handler {
	role = strings.ToUpper(role)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasRole(CurrentRoles(r), role) {
				next.ServeHTTP(w, r)
				return
			}
			WriteError(w, http.StatusForbidden, "Not allowed")
		})
	}
}

func hasRole(roles []string, role string) bool {
	for _, candidate := range roles {
		if strings.EqualFold(candidate, role) {
			return true
		}
	}
	return false
}
