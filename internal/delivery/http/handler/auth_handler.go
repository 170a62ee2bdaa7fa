package handler

import (
	"net/http"

	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/delivery/http/middleware"
	"medilink-api/internal/usecase"
	"medilink-api/pkg/response"
	"medilink-api/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Register an identity with the profile of the chosen role. Accepts JSON, or multipart when uploading diplomas.
// @Tags Auth
// @Accept json,mpfd
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	var conversion map[string]string
	if isMultipart(r) {
		if !parseMultipart(w, r) {
			return
		}
		f := newForm(r)
		req = registerRequestFromForm(f)
		conversion = f.errors
	} else {
		var ok bool
		if conversion, ok = decodeJSONFields(w, r, &req); !ok {
			return
		}
	}

	if !validate(w, h.validator, &req, conversion) {
		return
	}

	res, err := h.authUsecase.Register(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Registration failed")
		return
	}

	response.JSON(w, http.StatusCreated, res)
}

func registerRequestFromForm(f *form) dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:          f.String("name"),
		Email:         f.String("email"),
		Password:      f.String("password"),
		Phone:         f.String("phone"),
		RoleID:        f.Int("role_id"),
		ProfileFields: dto.ProfileFields{
			Age:              f.OptionalInt("age"),
			Gender:           f.OptionalString("gender"),
			BloodType:        f.OptionalString("blood_type"),
			Allergies:        f.List("allergies"),
			ChronicDiseases:  f.List("chronic_diseases"),
			Specialty:        f.List("specialty"),
			OtherSpecialty:   f.OptionalString("other_specialty"),
			ExperienceYears:  f.OptionalInt("experience_years"),
			NomEtablissement: f.String("nom_etablissement"),
			Localisation:     f.OptionalString("localisation"),
			NbrPersonnel:     f.OptionalInt("nbr_personnel"),
			GerantName:       f.OptionalString("gerant_name"),
			Services:         f.List("services"),
			OtherService:     f.OptionalString("other_service"),
			Adresse:          f.OptionalString("adresse"),
			HoraireStart:     f.String("horaire_start"),
			HoraireEnd:       f.String("horaire_end"),
			Diplomas:         f.Files("diplomas"),
		},
	}
}

// Login handles user login
// @Summary Login user
// @Description Login with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) || !validate(w, h.validator, &req) {
		return
	}

	res, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to login")
		return
	}

	response.JSON(w, http.StatusOK, res)
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the access token and, when given, the refresh token
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	tokenID, _ := middleware.GetTokenIDFromContext(r.Context())

	// The body is optional
	var req dto.LogoutRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authUsecase.Logout(r.Context(), userID, tokenID, &req); err != nil {
		response.FromError(w, err, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// RefreshToken exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if !decodeJSON(w, r, &req) || !validate(w, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to refresh token")
		return
	}

	response.Success(w, http.StatusOK, "Token refreshed successfully", tokens)
}

// Me returns the authenticated user
// @Summary Current user
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to get user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

// CheckEmail reports whether an email is already registered
// @Summary Check email
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.CheckEmailRequest true "Check Email Request"
// @Success 200 {object} dto.CheckEmailResponse
// @Router /check-email [post]
func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckEmailRequest
	if !decodeJSON(w, r, &req) || !validate(w, h.validator, &req) {
		return
	}

	res, err := h.authUsecase.CheckEmail(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to check email")
		return
	}

	response.JSON(w, http.StatusOK, res)
}
