package handler

import (
	"net/http"

	"medilink-api/internal/delivery/http/middleware"
	"medilink-api/internal/usecase"
	"medilink-api/pkg/response"
)

type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{dashboardUsecase: dashboardUsecase}
}

// PatientStats
// @Summary Patient dashboard counters
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.PatientStatsResponse
// @Router /patient/stats [get]
func (h *DashboardHandler) PatientStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	stats, err := h.dashboardUsecase.PatientStats(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to get stats")
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

// ProfessionalStats
// @Summary Professional dashboard counters
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ProfessionalStatsResponse
// @Router /doctor/stats [get]
func (h *DashboardHandler) ProfessionalStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	stats, err := h.dashboardUsecase.ProfessionalStats(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to get stats")
		return
	}

	response.JSON(w, http.StatusOK, stats)
}
