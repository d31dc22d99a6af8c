package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/pkg/utils"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// UserIDFromContext returns the authenticated user's id set by AuthMiddleware
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// RoleFromContext returns the authenticated user's role set by AuthMiddleware
func RoleFromContext(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(roleKey).(models.Role)
	return role, ok
}

// AuthMiddleware checks if the request has a valid JWT token and resolves
// the requester identity into the context
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, "no authorization header provided")
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				utils.RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})

			if err != nil || !token.Valid {
				utils.RespondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				utils.RespondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			// JSON numbers decode as float64
			userIDFloat, ok := claims["user_id"].(float64)
			if !ok {
				utils.RespondWithError(w, http.StatusUnauthorized, "invalid token: missing user_id claim")
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				utils.RespondWithError(w, http.StatusUnauthorized, "invalid token: missing role claim")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, int64(userIDFloat))
			ctx = context.WithValue(ctx, roleKey, models.Role(roleStr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose authenticated role does not match.
// Role enforcement happens here, before any service is invoked.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, ok := RoleFromContext(r.Context())
			if !ok || current != role {
				utils.RespondWithError(w, http.StatusForbidden, "Access Denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
