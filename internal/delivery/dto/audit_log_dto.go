package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type AuditLogQuery struct {
	Action string
	UserID *uuid.UUID
	Page   int
	Limit  int
}

// Response DTOs

type AuditLogUserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

type AuditLogResponse struct {
	ID        int64                  `json:"id"`
	User      *AuditLogUserResponse  `json:"user"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs       []AuditLogResponse `json:"logs"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
