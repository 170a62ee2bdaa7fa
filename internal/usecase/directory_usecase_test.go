package usecase

import (
	"context"
	"errors"
	"testing"

	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_Medecins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := registerRequest(entity.RoleIDMedecin, "doc@example.com")
	req.Name = "Dr Amrani"
	req.Specialty = dto.StringList{"Cardiologie", "Pédiatrie"}
	req.ExperienceYears = intPtr(12)
	req.HoraireStart = "09:00"
	req.HoraireEnd = "18:00"
	registered, err := f.auth.Register(ctx, req)
	require.NoError(t, err)

	patient := f.user(t, entity.RoleIDPatient, "Patient", "patient@example.com")

	list, err := f.directory.ListMedecins(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dr Amrani", list[0].Name)
	assert.Equal(t, []string{"Cardiologie", "Pédiatrie"}, list[0].Specialties)
	assert.True(t, list[0].Available)
	assert.Nil(t, list[0].Experience)

	detail, err := f.directory.GetMedecin(ctx, registered.User.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Experience)
	assert.Equal(t, "12 ans d'expérience", *detail.Experience)
	require.Len(t, detail.Schedule, 1)
	assert.Equal(t, "09:00", detail.Schedule[0].Start)

	_, err = f.directory.GetMedecin(ctx, patient.ID)
	assert.True(t, errors.Is(err, ErrMedecinNotFound))
}

func TestDirectory_Organisations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	clinique := registerRequest(entity.RoleIDClinique, "clinique@example.com")
	clinique.NomEtablissement = "Clinique du Parc"
	clinique.Adresse = strPtr("1 avenue Hassan II")
	clinique.Localisation = strPtr("Casablanca")
	_, err := f.auth.Register(ctx, clinique)
	require.NoError(t, err)

	labo := registerRequest(entity.RoleIDLaboAnalyse, "labo@example.com")
	labo.Name = "Labo Owner"
	_, err = f.auth.Register(ctx, labo)
	require.NoError(t, err)

	list, err := f.directory.ListOrganisations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "Clinique du Parc", list[0].Name)
	assert.Equal(t, "clinique", list[0].Type)
	require.NotNil(t, list[0].Location)
	assert.Equal(t, "Casablanca", *list[0].Location)
	assert.Equal(t, []string{}, list[0].Services)

	assert.Equal(t, "Labo Owner", list[1].Name)
	assert.Equal(t, "labo_analyse", list[1].Type)
}

func TestSplitSpecialtiesViaDirectory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.user(t, entity.RoleIDMedecin, "Dr Split", "split@example.com")
	specialty := " Cardiologie ;Neurologie|| Dermatologie,"
	require.NoError(t, f.db.Create(&entity.MedecinProfile{Practitioner: entity.Practitioner{
		ProfileBase: entity.ProfileBase{UserID: doc.ID},
		Specialty:   &specialty,
	}}).Error)

	detail, err := f.directory.GetMedecin(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cardiologie", "Neurologie", "Dermatologie"}, detail.Specialties)
}
