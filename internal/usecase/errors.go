package usecase

import (
	"errors"

	"medilink-api/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound       = apperror.Domain("role not found")
	ErrEmailTaken         = &apperror.Error{Kind: apperror.KindValidation, Message: "Email already taken", Fields: map[string]string{"email": "email has already been taken"}}
	ErrInvalidCredentials = apperror.Unauthorized("invalid email or password")
	ErrInvalidToken       = apperror.Unauthorized("invalid or expired token")
	ErrTokenRevoked       = apperror.Unauthorized("token has been revoked")
	ErrUserNotFound       = apperror.NotFound("user")

	ErrAppointmentNotFound   = apperror.NotFound("appointment")
	ErrTargetNotFound        = apperror.NotFound("doctor")
	ErrTargetNotProfessional = apperror.Domain("appointments can only be booked with a healthcare professional")
	ErrSelfAppointment       = apperror.Domain("you cannot book an appointment with yourself")
	ErrNotAppointmentOwner   = apperror.Forbidden("you can only cancel your own appointments")
	ErrNotAppointmentTarget  = apperror.Forbidden("this appointment is not assigned to you")
	ErrAppointmentClosed     = apperror.Conflict("appointment is already closed")
	ErrInvalidTransition     = apperror.Conflict("status transition not allowed")
	ErrInvalidSchedule       = &apperror.Error{Kind: apperror.KindValidation, Message: "Invalid date or time", Fields: map[string]string{"date": "date and time must form a valid moment"}}

	ErrAnnonceNotFound  = apperror.NotFound("announcement")
	ErrAnnonceForbidden = apperror.Forbidden("you are not authorized to modify this announcement")
	ErrAnnonceHidden    = apperror.Forbidden("you are not authorized to view this announcement")
	ErrInvalidPrice     = &apperror.Error{Kind: apperror.KindValidation, Message: "Invalid price", Fields: map[string]string{"price": "price must be a number greater than or equal to 0"}}
	ErrInvalidImage     = &apperror.Error{Kind: apperror.KindValidation, Message: "Invalid image", Fields: map[string]string{"images": "images must be jpeg, png, jpg or gif files of at most 5MB"}}
	ErrInvalidAvatar    = &apperror.Error{Kind: apperror.KindValidation, Message: "Invalid avatar", Fields: map[string]string{"avatar": "avatar must be an image of at most 3MB"}}

	ErrMedecinNotFound      = apperror.NotFound("medecin")
	ErrNotificationNotFound = apperror.NotFound("notification")
	ErrAuditLogNotFound     = apperror.NotFound("audit log")
)

// isDuplicateKeyError reports a unique constraint violation, whether gorm
// translated it or the raw PostgreSQL error came through.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	// PostgreSQL error code 23505 = unique_violation
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyError reports a foreign key violation.
func isForeignKeyError(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	// PostgreSQL error code 23503 = foreign_key_violation
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
