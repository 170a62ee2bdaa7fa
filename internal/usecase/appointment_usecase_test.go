package usecase

import (
	"context"
	"errors"
	"testing"

	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
	"medilink-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingSetup struct {
	*fixture
	patient *entity.User
	doctor  *entity.User
}

func newBookingSetup(t *testing.T) *bookingSetup {
	f := newFixture(t)
	s := &bookingSetup{
		fixture: f,
		patient: f.user(t, entity.RoleIDPatient, "Patient One", "patient@example.com"),
		doctor:  f.user(t, entity.RoleIDMedecin, "Dr House", "house@example.com"),
	}
	require.NoError(t, f.db.Create(&entity.PatientProfile{ProfileBase: entity.ProfileBase{UserID: s.patient.ID}}).Error)
	return s
}

func (s *bookingSetup) book(t *testing.T) *dto.AppointmentResponse {
	t.Helper()
	res, err := s.appointments.Book(context.Background(), s.patient.ID, &dto.BookAppointmentRequest{
		DoctorID: s.doctor.ID.String(),
		Date:     "2030-05-14",
		Time:     "09:30",
		Reason:   "Consultation",
	})
	require.NoError(t, err)
	return res
}

func (s *bookingSetup) status(t *testing.T, id uuid.UUID) entity.AppointmentStatus {
	t.Helper()
	var appointment entity.Appointment
	require.NoError(t, s.db.First(&appointment, "id = ?", id).Error)
	return appointment.Status
}

func TestBook(t *testing.T) {
	s := newBookingSetup(t)

	res := s.book(t)
	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, "Dr House", res.DoctorName)
	assert.Equal(t, "medecin", res.TargetRole)
	assert.Equal(t, "2030-05-14", res.Date)
	assert.Equal(t, "09:30", res.Time)

	assert.Equal(t, int64(1), s.count(t, &entity.Notification{}, "user_id = ? AND type = ?", s.doctor.ID, entity.NotificationAppointmentBooked))
	assert.Equal(t, int64(1), s.count(t, &entity.AuditLog{}, "action = ?", entity.AuditActionAppointmentBook))

	list, err := s.appointments.ListForPatient(context.Background(), s.patient.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.ID, list[0].ID)
}

func TestBook_UnknownTarget(t *testing.T) {
	s := newBookingSetup(t)

	_, err := s.appointments.Book(context.Background(), s.patient.ID, &dto.BookAppointmentRequest{
		DoctorID: uuid.NewString(),
		Date:     "2030-05-14",
		Time:     "09:30",
	})
	assert.True(t, errors.Is(err, ErrTargetNotFound))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, int64(0), s.count(t, &entity.Appointment{}, ""))
}

func TestBook_TargetMustBeProfessional(t *testing.T) {
	s := newBookingSetup(t)
	other := s.user(t, entity.RoleIDPatient, "Other Patient", "other@example.com")

	_, err := s.appointments.Book(context.Background(), s.patient.ID, &dto.BookAppointmentRequest{
		DoctorID: other.ID.String(),
		Date:     "2030-05-14",
		Time:     "09:30",
	})
	assert.True(t, errors.Is(err, ErrTargetNotProfessional))
	assert.Equal(t, apperror.KindDomain, apperror.KindOf(err))
	assert.Equal(t, int64(0), s.count(t, &entity.Appointment{}, ""))
}

func TestBook_RejectsSelfTarget(t *testing.T) {
	s := newBookingSetup(t)

	_, err := s.appointments.Book(context.Background(), s.doctor.ID, &dto.BookAppointmentRequest{
		DoctorID: s.doctor.ID.String(),
		Date:     "2030-05-14",
		Time:     "09:30",
		Reason:   "Self check",
	})
	assert.True(t, errors.Is(err, ErrSelfAppointment))
	assert.Equal(t, apperror.KindDomain, apperror.KindOf(err))
	assert.Equal(t, int64(0), s.count(t, &entity.Appointment{}, ""))
	assert.Equal(t, int64(0), s.count(t, &entity.Notification{}, ""))
}

func TestBook_FacilityTarget(t *testing.T) {
	s := newBookingSetup(t)
	labo := s.user(t, entity.RoleIDLaboAnalyse, "Labo Central", "labo@example.com")

	res, err := s.appointments.Book(context.Background(), s.patient.ID, &dto.BookAppointmentRequest{
		DoctorID: labo.ID.String(),
		Date:     "2030-05-14",
		Time:     "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "labo_analyse", res.TargetRole)
}

func TestCancel(t *testing.T) {
	s := newBookingSetup(t)
	ctx := context.Background()
	booked := s.book(t)

	stranger := s.user(t, entity.RoleIDPatient, "Stranger", "stranger@example.com")
	_, err := s.appointments.Cancel(ctx, booked.ID, stranger.ID)
	assert.True(t, errors.Is(err, ErrNotAppointmentOwner))
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	assert.Equal(t, entity.AppointmentPending, s.status(t, booked.ID))

	res, err := s.appointments.Cancel(ctx, booked.ID, s.patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", res.Status)
	assert.Equal(t, int64(1), s.count(t, &entity.Notification{}, "user_id = ? AND type = ?", s.doctor.ID, entity.NotificationAppointmentCancelled))

	_, err = s.appointments.Cancel(ctx, booked.ID, s.patient.ID)
	assert.True(t, errors.Is(err, ErrAppointmentClosed))
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = s.appointments.Cancel(ctx, uuid.New(), s.patient.ID)
	assert.True(t, errors.Is(err, ErrAppointmentNotFound))
}

func TestUpdateStatus_Transitions(t *testing.T) {
	s := newBookingSetup(t)
	ctx := context.Background()
	booked := s.book(t)

	_, err := s.appointments.UpdateStatus(ctx, booked.ID, s.doctor.ID, &dto.UpdateAppointmentStatusRequest{Status: "completed"})
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, entity.AppointmentPending, s.status(t, booked.ID))

	notes := "Bring previous results"
	res, err := s.appointments.UpdateStatus(ctx, booked.ID, s.doctor.ID, &dto.UpdateAppointmentStatusRequest{Status: "confirmed", Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", res.Status)
	require.NotNil(t, res.Notes)
	assert.Equal(t, notes, *res.Notes)
	assert.Equal(t, int64(1), s.count(t, &entity.Notification{}, "user_id = ? AND type = ?", s.patient.ID, entity.NotificationAppointmentUpdated))

	res, err = s.appointments.UpdateStatus(ctx, booked.ID, s.doctor.ID, &dto.UpdateAppointmentStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Status)

	_, err = s.appointments.UpdateStatus(ctx, booked.ID, s.doctor.ID, &dto.UpdateAppointmentStatusRequest{Status: "cancelled"})
	assert.True(t, errors.Is(err, ErrAppointmentClosed))
}

func TestUpdateStatus_NoShowCountsAgainstPatient(t *testing.T) {
	s := newBookingSetup(t)
	ctx := context.Background()
	booked := s.book(t)

	_, err := s.appointments.UpdateStatus(ctx, booked.ID, s.doctor.ID, &dto.UpdateAppointmentStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	_, err = s.appointments.UpdateStatus(ctx, booked.ID, s.doctor.ID, &dto.UpdateAppointmentStatusRequest{Status: "no_show"})
	require.NoError(t, err)

	var patient entity.PatientProfile
	require.NoError(t, s.db.First(&patient, "user_id = ?", s.patient.ID).Error)
	assert.Equal(t, 1, patient.MissedRdv)
}

func TestUpdateStatus_OnlyTarget(t *testing.T) {
	s := newBookingSetup(t)
	booked := s.book(t)
	colleague := s.user(t, entity.RoleIDMedecin, "Dr Wilson", "wilson@example.com")

	_, err := s.appointments.UpdateStatus(context.Background(), booked.ID, colleague.ID, &dto.UpdateAppointmentStatusRequest{Status: "confirmed"})
	assert.True(t, errors.Is(err, ErrNotAppointmentTarget))
	assert.Equal(t, entity.AppointmentPending, s.status(t, booked.ID))

	list, err := s.appointments.ListForProfessional(context.Background(), s.doctor.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Patient One", list[0].PatientName)
}
