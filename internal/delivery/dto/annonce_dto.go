package dto

import (
	"time"

	"medilink-api/pkg/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAnnonceRequest struct {
	Title                string         `json:"title" validate:"required,max=255"`
	Description          string         `json:"description" validate:"required"`
	Price                string         `json:"price" validate:"required,numeric"`
	Address              string         `json:"address" validate:"required,max=255"`
	Phone                string         `json:"phone" validate:"required,max=20"`
	Email                string         `json:"email" validate:"required,email,max=255"`
	IsActive             *bool          `json:"is_active" validate:"required"`
	PourcentageReduction *int           `json:"pourcentage_reduction"`
	Images               []storage.File `json:"-"`
}

// UpdateAnnonceRequest is a partial update: nil fields are left unchanged.
type UpdateAnnonceRequest struct {
	Title                *string        `json:"title" validate:"omitempty,min=1,max=255"`
	Description          *string        `json:"description" validate:"omitempty,min=1"`
	Price                *string        `json:"price" validate:"omitempty,numeric"`
	Address              *string        `json:"address" validate:"omitempty,min=1,max=255"`
	Phone                *string        `json:"phone" validate:"omitempty,min=1,max=20"`
	Email                *string        `json:"email" validate:"omitempty,email,max=255"`
	IsActive             *bool          `json:"is_active"`
	PourcentageReduction *int           `json:"pourcentage_reduction"`
	KeepImages           bool           `json:"keep_images"`
	Images               []storage.File `json:"-"`
}

type ToggleAnnonceStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

type AnnonceQuery struct {
	Search   string
	Category *int
}

// Response DTOs

type AnnonceOwnerResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	RoleID int       `json:"role_id"`
}

type AnnonceResponse struct {
	ID                   uuid.UUID             `json:"id"`
	UserID               uuid.UUID             `json:"user_id"`
	Title                string                `json:"title"`
	Description          string                `json:"description"`
	Price                decimal.Decimal       `json:"price"`
	DiscountedPrice      decimal.Decimal       `json:"discounted_price"`
	PourcentageReduction int                   `json:"pourcentage_reduction"`
	Address              string                `json:"address"`
	Phone                string                `json:"phone"`
	Email                string                `json:"email"`
	Images               []string              `json:"images"`
	IsActive             bool                  `json:"is_active"`
	User                 *AnnonceOwnerResponse `json:"user,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}
