package service

import (
	"context"
	"time"

	"medilink-api/internal/domain/entity"
	"medilink-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationService writes in-app notifications in the caller's transaction.
type NotificationService interface {
	AppointmentBooked(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) error
	AppointmentCancelled(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) error
	AppointmentUpdated(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) error
}

type notificationService struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	now              func() time.Time
}

func NewNotificationService(log *logrus.Logger, notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{
		log:              log,
		notificationRepo: notificationRepo,
		now:              time.Now,
	}
}

func (s *notificationService) AppointmentBooked(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) error {
	return s.send(ctx, tx, appointment, entity.NotificationAppointmentBooked,
		"Nouveau rendez-vous", "Un nouveau rendez-vous a été pris avec vous.")
}

func (s *notificationService) AppointmentCancelled(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) error {
	return s.send(ctx, tx, appointment, entity.NotificationAppointmentCancelled,
		"Rendez-vous annulé", "Un patient a annulé son rendez-vous.")
}

// AppointmentUpdated notifies the patient, not the professional.
func (s *notificationService) AppointmentUpdated(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) error {
	notification := &entity.Notification{
		UserID: appointment.PatientID,
		Type:   entity.NotificationAppointmentUpdated,
		Data:   s.payload(appointment, "Rendez-vous mis à jour", "Le statut de votre rendez-vous a changé."),
	}
	return s.create(ctx, tx, notification)
}

func (s *notificationService) send(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment, kind, title, message string) error {
	notification := &entity.Notification{
		UserID: appointment.TargetUserID,
		Type:   kind,
		Data:   s.payload(appointment, title, message),
	}
	return s.create(ctx, tx, notification)
}

func (s *notificationService) payload(appointment *entity.Appointment, title, message string) map[string]interface{} {
	return map[string]interface{}{
		"title":          title,
		"message":        message,
		"date":           s.now().UTC().Format(time.RFC3339),
		"appointment_id": appointment.ID.String(),
		"patient_id":     appointment.PatientID.String(),
		"doctor_id":      appointment.TargetUserID.String(),
		"status":         string(appointment.Status),
	}
}

func (s *notificationService) create(ctx context.Context, tx *gorm.DB, notification *entity.Notification) error {
	if err := s.notificationRepo.Create(ctx, tx, notification); err != nil {
		s.log.Warnf("Failed to create notification: %+v", err)
		return err
	}
	return nil
}
