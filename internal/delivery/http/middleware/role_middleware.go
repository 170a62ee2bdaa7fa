package middleware

import (
	"net/http"

	"medilink-api/internal/domain/entity"
	"medilink-api/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoleIDs ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRoleID := range allowedRoleIDs {
				if roleID == allowedRoleID {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin)(next)
}

// RequireProfessional admits every practitioner and facility role.
func RequireProfessional(next http.Handler) http.Handler {
	return RequireRole(entity.ProfessionalRoleIDs()...)(next)
}

// RequirePatient is a convenience middleware for patient-only endpoints
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDPatient)(next)
}

// RequireListingManager admits professionals and admins.
func RequireListingManager(next http.Handler) http.Handler {
	return RequireRole(append(entity.ProfessionalRoleIDs(), entity.RoleIDAdmin)...)(next)
}
