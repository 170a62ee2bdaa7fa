package usecase

import (
	"context"
	"errors"
	"testing"

	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
	"medilink-api/pkg/jwt"
	"medilink-api/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGetProfile_CreatesMissingPatientProfile(t *testing.T) {
	f := newFixture(t)
	patient := f.user(t, entity.RoleIDPatient, "Patient", "patient@example.com")

	res, err := f.users.GetProfile(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "patient", res.Role)
	assert.NotNil(t, res.Profile)
	assert.Equal(t, int64(1), f.count(t, &entity.PatientProfile{}, "user_id = ?", patient.ID))

	_, err = f.users.GetProfile(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.count(t, &entity.PatientProfile{}, "user_id = ?", patient.ID))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.user(t, entity.RoleIDPatient, "Patient", "patient@example.com")
	f.user(t, entity.RoleIDPatient, "Taken", "taken@example.com")

	res, err := f.users.UpdateProfile(ctx, patient.ID, &dto.UpdateProfileRequest{
		Name:            "Patient Renamed",
		Email:           "renamed@example.com",
		BloodType:       strPtr("AB-"),
		Allergies:       dto.CommaList{"arachides", "lactose"},
		ChronicDiseases: dto.CommaList{"asthme"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Patient Renamed", res.Name)
	assert.Equal(t, "renamed@example.com", res.Email)

	profile, err := f.users.(*userUsecase).profileRepo.FindPatient(ctx, f.db, patient.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "AB-", *profile.BloodType)
	assert.Equal(t, []string{"arachides", "lactose"}, []string(profile.Allergies))
	assert.Equal(t, int64(1), f.count(t, &entity.AuditLog{}, "action = ?", entity.AuditActionProfileUpdate))

	_, err = f.users.UpdateProfile(ctx, patient.ID, &dto.UpdateProfileRequest{
		Name:  "Patient Renamed",
		Email: "taken@example.com",
	})
	assert.True(t, errors.Is(err, ErrEmailTaken))
}

func TestUpdateProfile_PasswordChangeRevokesSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, entity.RoleIDKine, "Kine", "kine@example.com")

	login, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "kine@example.com", Password: "password123"})
	require.NoError(t, err)
	claims, err := f.jwt.ValidateToken(login.Token)
	require.NoError(t, err)

	_, err = f.users.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{
		Name:                 "Kine",
		Email:                "kine@example.com",
		Password:             "new-password",
		PasswordConfirmation: "new-password",
	})
	require.NoError(t, err)

	exists, err := f.sessions.Exists(ctx, jwt.AccessToken, user.ID, claims.TokenID)
	require.NoError(t, err)
	assert.False(t, exists)

	var stored entity.User
	require.NoError(t, f.db.First(&stored, "id = ?", user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("new-password")))
}

func TestUpdateAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, entity.RoleIDPatient, "Patient", "patient@example.com")

	first, err := f.users.UpdateAvatar(ctx, user.ID, &dto.UpdateAvatarRequest{Avatar: png("me.png")})
	require.NoError(t, err)
	assert.True(t, f.files.Exists(first.Path))

	second, err := f.users.UpdateAvatar(ctx, user.ID, &dto.UpdateAvatarRequest{Avatar: png("me-again.png")})
	require.NoError(t, err)
	assert.True(t, f.files.Exists(second.Path))
	assert.False(t, f.files.Exists(first.Path))

	var stored entity.User
	require.NoError(t, f.db.First(&stored, "id = ?", user.ID).Error)
	require.NotNil(t, stored.ProfileImage)
	assert.Equal(t, second.Path, *stored.ProfileImage)

	_, err = f.users.UpdateAvatar(ctx, user.ID, &dto.UpdateAvatarRequest{Avatar: storage.File{Name: "doc.txt", Data: []byte("hello")}})
	assert.True(t, errors.Is(err, ErrInvalidAvatar))
}
