package converter

import (
	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// AppointmentToResponse converts an appointment to the patient's view.
// Target should be preloaded; the name falls back to a generic label.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	doctorName := "Médecin"
	if appointment.Target != nil {
		doctorName = appointment.Target.Name
	}

	return &dto.AppointmentResponse{
		ID:         appointment.ID,
		DoctorID:   appointment.TargetUserID,
		DoctorName: doctorName,
		TargetRole: appointment.TargetRole,
		Date:       appointment.DateTime.UTC().Format(dateLayout),
		Time:       appointment.DateTime.UTC().Format(timeLayout),
		Status:     string(appointment.Status),
		Reason:     appointment.Reason,
		Notes:      appointment.Notes,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// AppointmentToProfessionalResponse converts an appointment to the professional's view.
func AppointmentToProfessionalResponse(appointment *entity.Appointment) *dto.ProfessionalAppointmentResponse {
	if appointment == nil {
		return nil
	}

	patientName := "Patient"
	if appointment.Patient != nil {
		patientName = appointment.Patient.Name
	}

	return &dto.ProfessionalAppointmentResponse{
		ID:          appointment.ID,
		PatientID:   appointment.PatientID,
		PatientName: patientName,
		Date:        appointment.DateTime.UTC().Format(dateLayout),
		Time:        appointment.DateTime.UTC().Format(timeLayout),
		Status:      string(appointment.Status),
		Reason:      appointment.Reason,
		Notes:       appointment.Notes,
	}
}

func AppointmentsToProfessionalResponses(appointments []entity.Appointment) []dto.ProfessionalAppointmentResponse {
	responses := make([]dto.ProfessionalAppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToProfessionalResponse(&appointments[i])
	}
	return responses
}
