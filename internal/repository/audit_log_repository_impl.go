package repository

import (
	"context"
	"errors"

	"medilink-api/internal/domain/entity"
	domainRepo "medilink-api/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	return db.WithContext(ctx).Omit("User").Create(log).Error
}

func (r *auditLogRepository) FindAll(ctx context.Context, db *gorm.DB, filter domainRepo.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	query := db.WithContext(ctx).Model(&entity.AuditLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var logs []entity.AuditLog
	err := query.Preload("User.Role").Order("created_at DESC, id DESC").Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *auditLogRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	err := db.WithContext(ctx).Preload("User.Role").Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}
