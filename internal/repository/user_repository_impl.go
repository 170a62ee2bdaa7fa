package repository

import (
	"context"
	"errors"

	"medilink-api/internal/domain/entity"
	domainRepo "medilink-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	return r.first(db.WithContext(ctx).Preload("Role").Where("email = ?", email))
}

func (r *userRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return r.first(db.WithContext(ctx).Preload("Role").Where("id = ?", id))
}

func (r *userRepository) first(query *gorm.DB) (*entity.User, error) {
	var user entity.User
	err := query.First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByRole(ctx context.Context, db *gorm.DB, roleIDs ...int) ([]entity.User, error) {
	var users []entity.User
	err := db.WithContext(ctx).
		Preload("Role").
		Where("role_id IN ?", roleIDs).
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return db.WithContext(ctx).Omit("Role").Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&entity.User{}).Error
}
