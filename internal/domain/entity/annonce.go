package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const MaxDiscountPercent = 20

// Annonce is a classified ad owned by a professional.
type Annonce struct {
	ID                   uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID                   `gorm:"type:uuid;not null;index" json:"user_id"`
	Title                string                      `gorm:"type:varchar(255);not null" json:"title"`
	Description          string                      `gorm:"type:text;not null" json:"description"`
	Price                decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"price"`
	Address              string                      `gorm:"type:varchar(255)" json:"address"`
	Phone                string                      `gorm:"type:varchar(20)" json:"phone"`
	Email                string                      `gorm:"type:varchar(255)" json:"email"`
	Images               datatypes.JSONSlice[string] `json:"images"`
	IsActive             bool                        `gorm:"not null;index" json:"is_active"`
	PourcentageReduction int                         `gorm:"not null" json:"pourcentage_reduction"`
	CreatedAt            time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Annonce) TableName() string {
	return "annonces"
}

func (a *Annonce) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the stored discount inside [0, MaxDiscountPercent].
func (a *Annonce) BeforeSave(tx *gorm.DB) error {
	a.PourcentageReduction = ClampDiscount(a.PourcentageReduction)
	return nil
}

func ClampDiscount(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > MaxDiscountPercent {
		return MaxDiscountPercent
	}
	return pct
}

// DiscountedPrice is price * (1 - pct/100) rounded to two decimals.
func (a *Annonce) DiscountedPrice() decimal.Decimal {
	pct := decimal.NewFromInt(int64(ClampDiscount(a.PourcentageReduction)))
	factor := decimal.NewFromInt(1).Sub(pct.Div(decimal.NewFromInt(100)))
	return a.Price.Mul(factor).Round(2)
}
