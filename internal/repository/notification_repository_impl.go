package repository

import (
	"context"
	"time"

	"medilink-api/internal/domain/entity"
	domainRepo "medilink-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct{}

func NewNotificationRepository() domainRepo.NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, db *gorm.DB, notification *entity.Notification) error {
	return db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, db *gorm.DB, id, userID uuid.UUID, at time.Time) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", at)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, db *gorm.DB, userID uuid.UUID, at time.Time) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
