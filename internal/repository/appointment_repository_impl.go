package repository

import (
	"context"
	"errors"
	"time"

	"medilink-api/internal/domain/entity"
	domainRepo "medilink-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Omit("Patient", "Target").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).Preload("Patient").Preload("Target").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatient(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.WithContext(ctx).Preload("Target").
		Where("patient_id = ?", patientID).
		Order("date_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByTarget(ctx context.Context, db *gorm.DB, targetID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.WithContext(ctx).Preload("Patient").
		Where("target_user_id = ?", targetID).
		Order("date_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// Transition updates the status only while it still equals from, so two
// concurrent transitions cannot both apply.
func (r *appointmentRepository) Transition(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus, notes *string) (int64, error) {
	updates := map[string]interface{}{"status": to}
	if notes != nil {
		updates["notes"] = *notes
	}

	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) CountForPatientSince(ctx context.Context, db *gorm.DB, patientID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("patient_id = ? AND date_time >= ? AND status <> ?", patientID, since, entity.AppointmentCancelled).
		Count(&count).Error
	return count, err
}

func (r *appointmentRepository) CountForPatientBefore(ctx context.Context, db *gorm.DB, patientID uuid.UUID, before time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("patient_id = ? AND date_time < ? AND status <> ?", patientID, before, entity.AppointmentCancelled).
		Count(&count).Error
	return count, err
}

func (r *appointmentRepository) CountForTargetBetween(ctx context.Context, db *gorm.DB, targetID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("target_user_id = ? AND date_time >= ? AND date_time < ?", targetID, start, end).
		Count(&count).Error
	return count, err
}

func (r *appointmentRepository) CountForTarget(ctx context.Context, db *gorm.DB, targetID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("target_user_id = ?", targetID).
		Count(&count).Error
	return count, err
}

func (r *appointmentRepository) CountDistinctPatients(ctx context.Context, db *gorm.DB, targetID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("target_user_id = ?", targetID).
		Distinct("patient_id").
		Count(&count).Error
	return count, err
}
