package dto

import "github.com/google/uuid"

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID string `json:"doctor_id" validate:"required,uuid"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,datetime=15:04"`
	Reason   string `json:"reason" validate:"required,max=255"`
}

type UpdateAppointmentStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=confirmed cancelled completed no_show"`
	Notes  *string `json:"notes"`
}

// Response DTOs

// AppointmentResponse is the patient's view of an appointment.
type AppointmentResponse struct {
	ID         uuid.UUID `json:"id"`
	DoctorID   uuid.UUID `json:"doctor_id"`
	DoctorName string    `json:"doctor_name"`
	TargetRole string    `json:"target_role"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason"`
	Notes      *string   `json:"notes"`
}

// ProfessionalAppointmentResponse is the professional's view of an appointment.
type ProfessionalAppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	Notes       *string   `json:"notes"`
}
