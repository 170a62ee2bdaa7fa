package handler

import (
	"net/http"

	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/delivery/http/middleware"
	"medilink-api/internal/usecase"
	"medilink-api/pkg/response"
	"medilink-api/pkg/validator"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
	}
}

// GetProfile returns the caller with its role profile
// @Summary Get profile
// @Tags User
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /user/profile [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	user, err := h.userUsecase.GetProfile(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", user)
}

// UpdateProfile updates identity fields and, for patients, medical fields
// @Summary Update profile
// @Tags User
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /user/profile [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	var conversion map[string]string
	if isMultipart(r) {
		if !parseMultipart(w, r) {
			return
		}
		f := newForm(r)
		req = dto.UpdateProfileRequest{
			Name:                 f.String("name"),
			Email:                f.String("email"),
			Phone:                f.OptionalString("phone"),
			Password:             f.String("password"),
			PasswordConfirmation: f.String("password_confirmation"),
			Age:                  f.OptionalInt("age"),
			Gender:               f.OptionalString("gender"),
			BloodType:            f.OptionalString("blood_type"),
			Allergies:            f.CommaList("allergies"),
			ChronicDiseases:      f.CommaList("chronic_diseases"),
		}
		conversion = f.errors
	} else if conversion, ok = decodeJSONFields(w, r, &req); !ok {
		return
	}

	if !validate(w, h.validator, &req, conversion) {
		return
	}

	user, err := h.userUsecase.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", user)
}

// UpdateAvatar replaces the profile picture
// @Summary Update avatar
// @Tags User
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param avatar formData file true "Image, at most 3MB"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /user/profile/update-avatar [post]
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	if !parseMultipart(w, r) {
		return
	}
	f := newForm(r)
	files := f.Files("avatar")
	if !f.Valid(w) {
		return
	}
	if len(files) == 0 {
		response.ValidationError(w, map[string]string{"avatar": "avatar is required"})
		return
	}

	avatar, err := h.userUsecase.UpdateAvatar(r.Context(), userID, &dto.UpdateAvatarRequest{Avatar: files[0]})
	if err != nil {
		response.FromError(w, err, "Failed to update avatar")
		return
	}

	response.Success(w, http.StatusOK, "Avatar updated successfully", avatar)
}
