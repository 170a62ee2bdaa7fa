package repository

import (
	"context"
	"time"

	"medilink-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatient(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByTarget(ctx context.Context, db *gorm.DB, targetID uuid.UUID) ([]entity.Appointment, error)
	// Transition moves the appointment from one status to another and reports
	// the affected rows. Zero means the status changed concurrently.
	Transition(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus, notes *string) (int64, error)

	CountForPatientSince(ctx context.Context, db *gorm.DB, patientID uuid.UUID, since time.Time) (int64, error)
	CountForPatientBefore(ctx context.Context, db *gorm.DB, patientID uuid.UUID, before time.Time) (int64, error)
	CountForTargetBetween(ctx context.Context, db *gorm.DB, targetID uuid.UUID, start, end time.Time) (int64, error)
	CountForTarget(ctx context.Context, db *gorm.DB, targetID uuid.UUID) (int64, error)
	CountDistinctPatients(ctx context.Context, db *gorm.DB, targetID uuid.UUID) (int64, error)
}
