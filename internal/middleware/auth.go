package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/petadoption/webclient/internal/auth"
)

// TokenCookie is the cookie the backend sets on login
const TokenCookie = "token"

// AuthMiddleware validates the access token and stores its claims in the request context
func AuthMiddleware(tokens *auth.TokenGenerator) func(http.Handler) http.Handler {
	return RoleMiddleware(tokens, "")
}

// RoleMiddleware validates the access token and, when requiredRole is set,
// rejects tokens whose role is not exactly requiredRole
func RoleMiddleware(tokens *auth.TokenGenerator, requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			if requiredRole != "" && claims.Role != requiredRole {
				writeError(w, http.StatusForbidden, "Not authorized as an admin")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads the bearer token from the Authorization header, then from the token cookie
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Split(header, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// GetClaims retrieves the validated token claims from context
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
