package handler

import (
	"net/http"
	"strconv"

	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/delivery/http/middleware"
	"medilink-api/internal/usecase"
	"medilink-api/pkg/response"
	"medilink-api/pkg/validator"

	"github.com/google/uuid"
)

type AnnonceHandler struct {
	annonceUsecase usecase.AnnonceUsecase
	validator      *validator.CustomValidator
}

func NewAnnonceHandler(annonceUsecase usecase.AnnonceUsecase, validator *validator.CustomValidator) *AnnonceHandler {
	return &AnnonceHandler{
		annonceUsecase: annonceUsecase,
		validator:      validator,
	}
}

// Create publishes an announcement owned by the caller
// @Summary Create annonce
// @Tags Annonces
// @Security BearerAuth
// @Accept mpfd,json
// @Produce json
// @Param request body dto.CreateAnnonceRequest true "Annonce"
// @Param images[] formData file false "Images, at most 5MB each"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /doctor/annonces [post]
func (h *AnnonceHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req dto.CreateAnnonceRequest
	var conversion map[string]string
	if isMultipart(r) {
		if !parseMultipart(w, r) {
			return
		}
		f := newForm(r)
		req = dto.CreateAnnonceRequest{
			Title:                f.String("title"),
			Description:          f.String("description"),
			Price:                f.String("price"),
			Address:              f.String("address"),
			Phone:                f.String("phone"),
			Email:                f.String("email"),
			IsActive:             f.OptionalBool("is_active"),
			PourcentageReduction: f.OptionalInt("pourcentage_reduction"),
			Images:               f.Files("images"),
		}
		conversion = f.errors
	} else if conversion, ok = decodeJSONFields(w, r, &req); !ok {
		return
	}

	if !validate(w, h.validator, &req, conversion) {
		return
	}

	annonce, err := h.annonceUsecase.Create(r.Context(), actor, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create annonce")
		return
	}

	response.Success(w, http.StatusCreated, "Annonce created successfully", annonce)
}

// ListOwn lists the caller's announcements; admins may pass user_id
// @Summary My annonces
// @Tags Annonces
// @Security BearerAuth
// @Produce json
// @Param user_id query string false "Owner, admin only"
// @Success 200 {object} response.Response
// @Router /doctor/annonces [get]
func (h *AnnonceHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var ownerID *uuid.UUID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.ValidationError(w, map[string]string{"user_id": "user_id must be a valid UUID"})
			return
		}
		ownerID = &id
	}

	annonces, err := h.annonceUsecase.ListOwn(r.Context(), actor, ownerID)
	if err != nil {
		response.FromError(w, err, "Failed to get annonces")
		return
	}

	response.Success(w, http.StatusOK, "Annonces retrieved successfully", annonces)
}

// ListPublic lists active announcements
// @Summary Public annonces
// @Tags Annonces
// @Produce json
// @Param search query string false "Search in title and description"
// @Param category query int false "Owner role id"
// @Success 200 {object} response.Response
// @Router /annonces [get]
func (h *AnnonceHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	query := dto.AnnonceQuery{Search: r.URL.Query().Get("search")}
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := strconv.Atoi(raw)
		if err != nil {
			response.ValidationError(w, map[string]string{"category": "category must be an integer"})
			return
		}
		query.Category = &category
	}

	annonces, err := h.annonceUsecase.ListPublic(r.Context(), query)
	if err != nil {
		response.FromError(w, err, "Failed to get annonces")
		return
	}

	response.Success(w, http.StatusOK, "Annonces retrieved successfully", annonces)
}

// Show returns one announcement
// @Summary Show annonce
// @Tags Annonces
// @Security BearerAuth
// @Produce json
// @Param id path string true "Annonce ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /doctor/annonces/{id} [get]
func (h *AnnonceHandler) Show(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	annonce, err := h.annonceUsecase.Show(r.Context(), id, actor)
	if err != nil {
		response.FromError(w, err, "Failed to get annonce")
		return
	}

	response.Success(w, http.StatusOK, "Annonce retrieved successfully", annonce)
}

// Update changes an announcement; sent images replace the stored ones unless keep_images is true
// @Summary Update annonce
// @Tags Annonces
// @Security BearerAuth
// @Accept mpfd,json
// @Produce json
// @Param id path string true "Annonce ID"
// @Param request body dto.UpdateAnnonceRequest true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /doctor/annonces/{id} [post]
func (h *AnnonceHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateAnnonceRequest
	var conversion map[string]string
	if isMultipart(r) {
		if !parseMultipart(w, r) {
			return
		}
		f := newForm(r)
		keep := f.OptionalBool("keep_images")
		req = dto.UpdateAnnonceRequest{
			Title:                f.OptionalString("title"),
			Description:          f.OptionalString("description"),
			Price:                f.OptionalString("price"),
			Address:              f.OptionalString("address"),
			Phone:                f.OptionalString("phone"),
			Email:                f.OptionalString("email"),
			IsActive:             f.OptionalBool("is_active"),
			PourcentageReduction: f.OptionalInt("pourcentage_reduction"),
			KeepImages:           keep != nil && *keep,
			Images:               f.Files("images"),
		}
		conversion = f.errors
	} else if conversion, ok = decodeJSONFields(w, r, &req); !ok {
		return
	}

	if !validate(w, h.validator, &req, conversion) {
		return
	}

	annonce, err := h.annonceUsecase.Update(r.Context(), id, actor, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update annonce")
		return
	}

	response.Success(w, http.StatusOK, "Annonce updated successfully", annonce)
}

// ToggleStatus sets is_active, or flips it when the body is empty
// @Summary Toggle annonce status
// @Tags Annonces
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Annonce ID"
// @Success 200 {object} response.Response
// @Router /doctor/annonces/{id}/toggle-status [put]
func (h *AnnonceHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.ToggleAnnonceStatusRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	annonce, err := h.annonceUsecase.ToggleStatus(r.Context(), id, actor, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update annonce status")
		return
	}

	response.Success(w, http.StatusOK, "Annonce status updated successfully", annonce)
}

// Delete removes an announcement and its images
// @Summary Delete annonce
// @Tags Annonces
// @Security BearerAuth
// @Produce json
// @Param id path string true "Annonce ID"
// @Success 200 {object} response.Response
// @Router /doctor/annonces/{id} [delete]
func (h *AnnonceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.annonceUsecase.Delete(r.Context(), id, actor); err != nil {
		response.FromError(w, err, "Failed to delete annonce")
		return
	}

	response.Success(w, http.StatusOK, "Annonce deleted successfully", nil)
}
