package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// RegisterRequest carries the identity fields plus whatever profile fields
// the chosen role uses; the others are ignored.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone" validate:"required,max=20"`
	RoleID   int    `json:"role_id" validate:"required"`
	ProfileFields
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CheckEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Response DTOs

type AuthResponse struct {
	Message      string        `json:"message"`
	Token        string        `json:"token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *UserResponse `json:"user"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type CheckEmailResponse struct {
	Exists bool `json:"exists"`
}

type UserResponse struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	RoleID       int         `json:"role_id"`
	Role         string      `json:"role"`
	IsVerified   bool        `json:"is_verified"`
	IsSubscribed bool        `json:"is_subscribed"`
	ProfileImage *string     `json:"profile_image"`
	Profile      interface{} `json:"profile,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
