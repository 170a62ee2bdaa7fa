package repository

import (
	"context"
	"errors"
	"strings"

	"medilink-api/internal/domain/entity"
	domainRepo "medilink-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type annonceRepository struct{}

func NewAnnonceRepository() domainRepo.AnnonceRepository {
	return &annonceRepository{}
}

func (r *annonceRepository) Create(ctx context.Context, db *gorm.DB, annonce *entity.Annonce) error {
	return db.WithContext(ctx).Omit("User").Create(annonce).Error
}

func (r *annonceRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Annonce, error) {
	var annonce entity.Annonce
	err := db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&annonce).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &annonce, nil
}

func (r *annonceRepository) FindByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]entity.Annonce, error) {
	var annonces []entity.Annonce
	err := db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&annonces).Error
	if err != nil {
		return nil, err
	}
	return annonces, nil
}

func (r *annonceRepository) FindActiveByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]entity.Annonce, error) {
	var annonces []entity.Annonce
	err := db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", ownerID, true).
		Find(&annonces).Error
	if err != nil {
		return nil, err
	}
	return annonces, nil
}

func (r *annonceRepository) FindPublic(ctx context.Context, db *gorm.DB, filter domainRepo.AnnonceFilter) ([]entity.Annonce, error) {
	query := db.WithContext(ctx).Preload("User").
		Where("annonces.is_active = ?", true)

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(annonces.title) LIKE ? OR LOWER(annonces.description) LIKE ?)", like, like)
	}

	if filter.Category != nil {
		query = query.Joins("JOIN users ON users.id = annonces.user_id").
			Where("users.role_id = ?", *filter.Category)
	}

	var annonces []entity.Annonce
	if err := query.Order("annonces.created_at DESC").Find(&annonces).Error; err != nil {
		return nil, err
	}
	return annonces, nil
}

func (r *annonceRepository) Update(ctx context.Context, db *gorm.DB, annonce *entity.Annonce) error {
	return db.WithContext(ctx).Omit("User").Save(annonce).Error
}

func (r *annonceRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Annonce{}).Error
}
