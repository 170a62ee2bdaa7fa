package handler

import (
	"net/http"

	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/delivery/http/middleware"
	"medilink-api/internal/usecase"
	"medilink-api/pkg/response"
	"medilink-api/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// Book creates a pending appointment with a professional
// @Summary Book appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.BookAppointmentRequest true "Booking"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req dto.BookAppointmentRequest
	if !decodeJSON(w, r, &req) || !validate(w, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), userID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

// ListForPatient lists the caller's appointments, most recent first
// @Summary My appointments
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) ListForPatient(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	appointments, err := h.appointmentUsecase.ListForPatient(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// Cancel cancels one of the caller's appointments
// @Summary Cancel appointment
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/cancel [put]
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Cancel(r.Context(), id, userID)
	if err != nil {
		response.FromError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

// ListForProfessional lists appointments booked with the caller
// @Summary Professional appointments
// @Tags Doctor
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /doctor/appointments [get]
func (h *AppointmentHandler) ListForProfessional(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	appointments, err := h.appointmentUsecase.ListForProfessional(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// UpdateStatus moves an appointment booked with the caller to a new status
// @Summary Update appointment status
// @Tags Doctor
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentStatusRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /doctor/appointments/{id} [put]
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if !decodeJSON(w, r, &req) || !validate(w, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), id, userID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}
