package dto

import (
	"medilink-api/internal/domain/entity"

	"github.com/google/uuid"
)

type MedecinResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Specialty   string            `json:"specialty"`
	Specialties []string          `json:"specialties"`
	Experience  *string           `json:"experience"`
	Location    *string           `json:"location"`
	Available   bool              `json:"available"`
	Schedule    []entity.Horaires `json:"schedule,omitempty"`
}

type OrganisationResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Location   *string   `json:"location"`
	GerantName *string   `json:"gerant_name"`
	Available  bool      `json:"available"`
	Services   []string  `json:"services"`
}
