package repository

import (
	"context"
	"errors"

	"medilink-api/internal/domain/entity"
	domainRepo "medilink-api/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roleRepository struct{}

func NewRoleRepository() domainRepo.RoleRepository {
	return &roleRepository{}
}

func (r *roleRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Role, error) {
	return r.first(db.WithContext(ctx).Where("id = ?", id))
}

func (r *roleRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error) {
	return r.first(db.WithContext(ctx).Where("name = ?", name))
}

func (r *roleRepository) first(query *gorm.DB) (*entity.Role, error) {
	var role entity.Role
	err := query.First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// Seed inserts the fixed role rows, leaving existing ones untouched.
func (r *roleRepository) Seed(ctx context.Context, db *gorm.DB) error {
	roles := entity.SeedRoles()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&roles).Error
}
