package repository

import (
	"context"

	"medilink-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByRole(ctx context.Context, db *gorm.DB, roleIDs ...int) ([]entity.User, error)
	ExistsByEmail(ctx context.Context, db *gorm.DB, email string) (bool, error)
	Update(ctx context.Context, db *gorm.DB, user *entity.User) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error
}
