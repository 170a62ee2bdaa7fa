package repository

import (
	"context"

	"medilink-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnnonceFilter narrows the public listing.
type AnnonceFilter struct {
	Search   string
	Category *int
}

type AnnonceRepository interface {
	Create(ctx context.Context, db *gorm.DB, annonce *entity.Annonce) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Annonce, error)
	FindByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]entity.Annonce, error)
	FindActiveByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]entity.Annonce, error)
	FindPublic(ctx context.Context, db *gorm.DB, filter AnnonceFilter) ([]entity.Annonce, error)
	Update(ctx context.Context, db *gorm.DB, annonce *entity.Annonce) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error
}
