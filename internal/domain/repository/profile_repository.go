package repository

import (
	"context"

	"medilink-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository stores every profile variant, each in its own table.
type ProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile entity.Profile) error
	FindByUser(ctx context.Context, db *gorm.DB, kind entity.RoleKind, userID uuid.UUID) (entity.Profile, error)
	FindByKind(ctx context.Context, db *gorm.DB, kind entity.RoleKind, userIDs ...uuid.UUID) ([]entity.Profile, error)
	CountForUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error)

	FindPatient(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
	SavePatient(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error
	IncrementMissedRdv(ctx context.Context, db *gorm.DB, userID uuid.UUID) error
}
