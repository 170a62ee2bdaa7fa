package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:   {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled, AppointmentNoShow},
}

// CanTransitionTo reports whether an appointment in status s may move to next.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// Appointment (rdv) links a patient to the professional they booked.
type Appointment struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	TargetUserID uuid.UUID         `gorm:"type:uuid;not null;index" json:"target_user_id"`
	TargetRole   string            `gorm:"type:varchar(50);not null" json:"target_role"`
	DateTime     time.Time         `gorm:"not null;index" json:"date_time"`
	Status       AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Reason       string            `gorm:"type:varchar(255);not null" json:"reason"`
	Notes        *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Target  *User `gorm:"foreignKey:TargetUserID" json:"target,omitempty"`
}

func (Appointment) TableName() string {
	return "rdv"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
