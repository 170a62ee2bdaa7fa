package repository

import (
	"context"

	"medilink-api/internal/domain/entity"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Role, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error)
	Seed(ctx context.Context, db *gorm.DB) error
}
