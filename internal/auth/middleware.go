package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"

	"learnify/internal/models"
)

type contextKey int

const (
	userIDKey contextKey = iota
	roleKey
)

// WithUser stamps an authenticated identity onto a context, the same way
// JWTMiddleware does.
func WithUser(ctx context.Context, id uint, role models.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	return context.WithValue(ctx, roleKey, role)
}

// UserID extracts the authenticated user id from the request context.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey).(uint)
	return id, ok
}

// UserRole extracts the authenticated user's role from the request context.
func UserRole(ctx context.Context) models.Role {
	role, ok := ctx.Value(roleKey).(models.Role)
	if !ok {
		return models.RoleStudent
	}
	return role
}

func JWTMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			bearerToken := strings.Split(authHeader, " ")
			if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
				http.Error(w, "Invalid token format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.ParseWithClaims(bearerToken[1], &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(*jwt.MapClaims)
			if !ok || !token.Valid {
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			userID, ok := (*claims)["user_id"].(float64)
			if !ok {
				http.Error(w, "Invalid user ID in token", http.StatusUnauthorized)
				return
			}
			role, _ := (*claims)["role"].(string)

			ctx := context.WithValue(r.Context(), userIDKey, uint(userID))
			ctx = context.WithValue(ctx, roleKey, models.Role(role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
