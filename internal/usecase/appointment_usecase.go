package usecase

import (
	"context"
	"time"

	"medilink-api/internal/converter"
	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
	"medilink-api/internal/domain/repository"
	"medilink-api/internal/service"
	"medilink-api/pkg/apperror"
	"medilink-api/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const appointmentLayout = "2006-01-02 15:04"

type AppointmentUsecase interface {
	Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, appointmentID, callerID uuid.UUID) (*dto.AppointmentResponse, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]dto.AppointmentResponse, error)
	ListForProfessional(ctx context.Context, targetID uuid.UUID) ([]dto.ProfessionalAppointmentResponse, error)
	UpdateStatus(ctx context.Context, appointmentID, callerID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.ProfessionalAppointmentResponse, error)
}

type appointmentUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	userRepo            repository.UserRepository
	appointmentRepo     repository.AppointmentRepository
	profileRepo         repository.ProfileRepository
	notificationService service.NotificationService
	auditService        service.AuditService
	metrics             *metrics.Metrics
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	profileRepo repository.ProfileRepository,
	notificationService service.NotificationService,
	auditService service.AuditService,
	metrics *metrics.Metrics,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                  db,
		log:                 log,
		userRepo:            userRepo,
		appointmentRepo:     appointmentRepo,
		profileRepo:         profileRepo,
		notificationService: notificationService,
		auditService:        auditService,
		metrics:             metrics,
	}
}

// Book creates a pending appointment with a practitioner or facility.
func (u *appointmentUsecase) Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	targetID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrTargetNotFound
	}

	dateTime, err := time.ParseInLocation(appointmentLayout, req.Date+" "+req.Time, time.UTC)
	if err != nil {
		return nil, ErrInvalidSchedule
	}

	if targetID == patientID {
		return nil, ErrSelfAppointment
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	target, err := u.userRepo.FindByID(ctx, tx, targetID)
	if err != nil {
		u.log.Warnf("Failed to find target user: %+v", err)
		return nil, apperror.Internal(err)
	}
	if target == nil {
		return nil, ErrTargetNotFound
	}

	kind := target.Kind()
	if !kind.IsProfessional() {
		return nil, ErrTargetNotProfessional
	}

	appointment := &entity.Appointment{
		PatientID:    patientID,
		TargetUserID: target.ID,
		TargetRole:   string(kind),
		DateTime:     dateTime,
		Status:       entity.AppointmentPending,
		Reason:       req.Reason,
	}

	if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, apperror.Internal(err)
	}

	if err := u.notificationService.AppointmentBooked(ctx, tx, appointment); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, &patientID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), map[string]interface{}{
		"target_user_id": target.ID.String(),
		"target_role":    appointment.TargetRole,
		"date_time":      dateTime.Format(time.RFC3339),
	}); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}
	u.metrics.AppointmentsBooked.Inc()

	appointment.Target = target
	return converter.AppointmentToResponse(appointment), nil
}

// Cancel is reserved to the patient who booked the appointment.
func (u *appointmentUsecase) Cancel(ctx context.Context, appointmentID, callerID uuid.UUID) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findAppointment(ctx, tx, appointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.PatientID != callerID {
		return nil, ErrNotAppointmentOwner
	}

	previous := appointment.Status
	if !previous.CanTransitionTo(entity.AppointmentCancelled) {
		return nil, ErrAppointmentClosed
	}

	if err := u.transition(ctx, tx, appointment, entity.AppointmentCancelled, nil); err != nil {
		return nil, err
	}

	if err := u.notificationService.AppointmentCancelled(ctx, tx, appointment); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, &callerID, entity.AuditActionAppointmentCancel, "appointment", appointment.ID.String(),
		map[string]interface{}{"status": string(previous)},
		map[string]interface{}{"status": string(appointment.Status)},
	); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}
	u.metrics.AppointmentsByState.WithLabelValues(string(entity.AppointmentCancelled)).Inc()

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatient(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient appointments: %+v", err)
		return nil, apperror.Internal(err)
	}
	return converter.AppointmentsToResponses(appointments), nil
}

func (u *appointmentUsecase) ListForProfessional(ctx context.Context, targetID uuid.UUID) ([]dto.ProfessionalAppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindByTarget(ctx, u.db, targetID)
	if err != nil {
		u.log.Warnf("Failed to find professional appointments: %+v", err)
		return nil, apperror.Internal(err)
	}
	return converter.AppointmentsToProfessionalResponses(appointments), nil
}

// UpdateStatus lets the booked professional move an appointment along the
// status graph. A no-show counts against the patient.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, appointmentID, callerID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.ProfessionalAppointmentResponse, error) {
	next := entity.AppointmentStatus(req.Status)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findAppointment(ctx, tx, appointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.TargetUserID != callerID {
		return nil, ErrNotAppointmentTarget
	}

	previous := appointment.Status
	if previous.IsTerminal() {
		return nil, ErrAppointmentClosed
	}
	if !previous.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	if err := u.transition(ctx, tx, appointment, next, req.Notes); err != nil {
		return nil, err
	}

	if next == entity.AppointmentNoShow {
		if err := u.profileRepo.IncrementMissedRdv(ctx, tx, appointment.PatientID); err != nil {
			u.log.Warnf("Failed to increment missed appointments: %+v", err)
			return nil, apperror.Internal(err)
		}
	}

	if err := u.notificationService.AppointmentUpdated(ctx, tx, appointment); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, &callerID, entity.AuditActionAppointmentStatus, "appointment", appointment.ID.String(),
		map[string]interface{}{"status": string(previous)},
		map[string]interface{}{"status": string(next), "notes": req.Notes},
	); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}
	u.metrics.AppointmentsByState.WithLabelValues(string(next)).Inc()

	return converter.AppointmentToProfessionalResponse(appointment), nil
}

func (u *appointmentUsecase) findAppointment(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, apperror.Internal(err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// transition applies the status change only if nobody changed the status in
// between; otherwise the appointment is reported closed.
func (u *appointmentUsecase) transition(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment, next entity.AppointmentStatus, notes *string) error {
	rows, err := u.appointmentRepo.Transition(ctx, tx, appointment.ID, appointment.Status, next, notes)
	if err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return apperror.Internal(err)
	}
	if rows == 0 {
		return ErrAppointmentClosed
	}

	appointment.Status = next
	if notes != nil {
		appointment.Notes = notes
	}
	return nil
}
