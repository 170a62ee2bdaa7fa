package usecase

import (
	"context"
	"time"

	"medilink-api/internal/converter"
	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/repository"
	"medilink-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type NotificationUsecase interface {
	List(ctx context.Context, userID uuid.UUID) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
}

func NewNotificationUsecase(db *gorm.DB, log *logrus.Logger, notificationRepo repository.NotificationRepository) NotificationUsecase {
	return &notificationUsecase{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
	}
}

func (u *notificationUsecase) List(ctx context.Context, userID uuid.UUID) (*dto.NotificationListResponse, error) {
	notifications, err := u.notificationRepo.FindByUser(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find notifications: %+v", err)
		return nil, apperror.Internal(err)
	}

	unread, err := u.notificationRepo.CountUnread(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to count unread notifications: %+v", err)
		return nil, apperror.Internal(err)
	}

	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(notifications),
		UnreadCount:   unread,
	}, nil
}

// MarkRead only touches notifications addressed to userID.
func (u *notificationUsecase) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	rows, err := u.notificationRepo.MarkRead(ctx, u.db, id, userID, time.Now().UTC())
	if err != nil {
		u.log.Warnf("Failed to mark notification read: %+v", err)
		return apperror.Internal(err)
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	rows, err := u.notificationRepo.MarkAllRead(ctx, u.db, userID, time.Now().UTC())
	if err != nil {
		u.log.Warnf("Failed to mark notifications read: %+v", err)
		return 0, apperror.Internal(err)
	}
	return rows, nil
}
