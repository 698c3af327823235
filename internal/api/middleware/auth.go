package middleware

import (
	"context"
	"net/http"
	"strings"

	apiContext "hercule/internal/api/context"
	"hercule/internal/pkg/errors"
	"hercule/internal/platform/auth"
	"hercule/internal/platform/config"
	"hercule/internal/platform/models"
)

const secretKeyHeader = "X-Hercule-Secret-Key"

type AuthMiddleware struct {
	tokenSvc *auth.TokenService
	authCfg  config.AuthConfig
}

func NewAuthMiddleware(tokenSvc *auth.TokenService, authCfg config.AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, authCfg: authCfg}
}

// Handle accepts either a bearer token or the X-Hercule-Secret-Key header.
// The secret key is how external automations (n8n, Zapier) authenticate; it
// grants admin-level access.
func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.CheckSecretKey(m.authCfg, r.Header.Get(secretKeyHeader)) {
			claims := &auth.Claims{Role: models.RoleAdmin}
			ctx := context.WithValue(r.Context(), apiContext.Claims, claims)
			next(w, r.WithContext(ctx))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing authorization header", nil)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid authorization header format", nil)
			return
		}

		claims, err := m.tokenSvc.ValidateToken(parts[1])
		if err != nil {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid or expired token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Claims, claims)
		next(w, r.WithContext(ctx))
	}
}
