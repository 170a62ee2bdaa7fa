package dto

import "medilink-api/pkg/storage"

type UpdateProfileRequest struct {
	Name                 string  `json:"name" validate:"required,max=100"`
	Email                string  `json:"email" validate:"required,email,max=100"`
	Phone                *string `json:"phone" validate:"omitempty,max=20"`
	Password             string  `json:"password" validate:"omitempty,min=8"`
	PasswordConfirmation string  `json:"password_confirmation" validate:"required_with=Password,eqfield=Password"`

	// Patient medical fields, ignored for other roles.
	Age             *int      `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender          *string   `json:"gender" validate:"omitempty,max=20"`
	BloodType       *string   `json:"blood_type" validate:"omitempty,max=5"`
	Allergies       CommaList `json:"allergies"`
	ChronicDiseases CommaList `json:"chronic_diseases"`
}

type UpdateAvatarRequest struct {
	Avatar storage.File
}

type AvatarResponse struct {
	Path string `json:"path"`
}
