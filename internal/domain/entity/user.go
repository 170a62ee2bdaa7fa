package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the centralized authentication table
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"type:text;not null" json:"-"`
	Phone        string    `gorm:"type:varchar(20);not null" json:"phone"`
	RoleID       int       `gorm:"not null;index" json:"role_id"`
	IsVerified   bool      `gorm:"not null" json:"is_verified"`
	IsSubscribed bool      `gorm:"not null" json:"is_subscribed"`
	ProfileImage *string   `gorm:"type:varchar(255)" json:"profile_image,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Kind resolves the role kind of u. Unknown ids yield an empty kind.
func (u *User) Kind() RoleKind {
	kind, _ := ResolveRole(u.RoleID)
	return kind
}
