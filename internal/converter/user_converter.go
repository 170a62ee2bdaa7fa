package converter

import (
	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// The role name comes from the preloaded Role when present.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role := user.Role.Name
	if role == "" {
		role = string(user.Kind())
	}

	return &dto.UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		RoleID:       user.RoleID,
		Role:         role,
		IsVerified:   user.IsVerified,
		IsSubscribed: user.IsSubscribed,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// UserWithProfileToResponse includes the role specific profile, serialized as stored.
func UserWithProfileToResponse(user *entity.User, profile entity.Profile) *dto.UserResponse {
	response := UserToResponse(user)
	if response != nil && profile != nil {
		response.Profile = profile
	}
	return response
}
