package middleware

import (
	"context"
	"net/http"
	"strings"

	"medilink-api/internal/domain/entity"
	"medilink-api/internal/service"
	"medilink-api/pkg/jwt"
	"medilink-api/pkg/response"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	RoleIDKey    contextKey = "role_id"
	TokenIDKey   contextKey = "token_id"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	sessions   service.SessionStore
	log        *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, sessions service.SessionStore, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
		log:        log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		// Revoked tokens are gone from the session store
		exists, err := m.sessions.Exists(r.Context(), jwt.AccessToken, claims.UserID, claims.TokenID)
		if err != nil {
			m.log.Warnf("Failed to validate token: %+v", err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !exists {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
		ctx = context.WithValue(ctx, RoleIDKey, claims.RoleID)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserEmailFromContext extracts user email from context
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetRoleIDFromContext extracts role ID from context
func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	roleID, ok := ctx.Value(RoleIDKey).(int)
	return roleID, ok
}

// GetActorFromContext returns the authenticated caller.
func GetActorFromContext(ctx context.Context) (entity.Actor, bool) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return entity.Actor{}, false
	}
	roleID, _ := GetRoleIDFromContext(ctx)
	return entity.Actor{UserID: userID, RoleID: roleID}, true
}
