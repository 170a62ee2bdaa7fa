package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationAppointmentBooked    = "appointment.booked"
	NotificationAppointmentCancelled = "appointment.cancelled"
	NotificationAppointmentUpdated   = "appointment.updated"
)

// Notification is an in-app message addressed to one user.
type Notification struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string            `gorm:"type:varchar(100);not null" json:"type"`
	Data      datatypes.JSONMap `json:"data"`
	ReadAt    *time.Time        `json:"read_at"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
