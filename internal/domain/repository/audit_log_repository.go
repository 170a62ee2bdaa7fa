package repository

import (
	"context"

	"medilink-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogFilter struct {
	Action string
	UserID *uuid.UUID
	Limit  int
	Offset int
}

type AuditLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	FindAll(ctx context.Context, db *gorm.DB, filter AuditLogFilter) ([]entity.AuditLog, int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error)
}
