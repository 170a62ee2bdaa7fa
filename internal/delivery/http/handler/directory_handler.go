package handler

import (
	"net/http"

	"medilink-api/internal/usecase"
	"medilink-api/pkg/response"
)

type DirectoryHandler struct {
	directoryUsecase usecase.DirectoryUsecase
}

func NewDirectoryHandler(directoryUsecase usecase.DirectoryUsecase) *DirectoryHandler {
	return &DirectoryHandler{directoryUsecase: directoryUsecase}
}

// ListMedecins
// @Summary Doctor directory
// @Tags Directory
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /medecins [get]
func (h *DirectoryHandler) ListMedecins(w http.ResponseWriter, r *http.Request) {
	medecins, err := h.directoryUsecase.ListMedecins(r.Context())
	if err != nil {
		response.FromError(w, err, "Failed to get medecins")
		return
	}

	response.Success(w, http.StatusOK, "Medecins retrieved successfully", medecins)
}

// GetMedecin
// @Summary Doctor details
// @Tags Directory
// @Security BearerAuth
// @Produce json
// @Param id path string true "Medecin user ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /medecins/{id} [get]
func (h *DirectoryHandler) GetMedecin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	medecin, err := h.directoryUsecase.GetMedecin(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get medecin")
		return
	}

	response.Success(w, http.StatusOK, "Medecin retrieved successfully", medecin)
}

// ListOrganisations
// @Summary Facility directory
// @Tags Directory
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /organisations [get]
func (h *DirectoryHandler) ListOrganisations(w http.ResponseWriter, r *http.Request) {
	organisations, err := h.directoryUsecase.ListOrganisations(r.Context())
	if err != nil {
		response.FromError(w, err, "Failed to get organisations")
		return
	}

	response.Success(w, http.StatusOK, "Organisations retrieved successfully", organisations)
}
