package usecase

import (
	"context"
	"testing"
	"time"

	"medilink-api/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := time.Date(2030, 3, 10, 15, 0, 0, 0, time.UTC)
	f.dashboard.now = func() time.Time { return now }

	patient := f.user(t, entity.RoleIDPatient, "Patient", "patient@example.com")
	other := f.user(t, entity.RoleIDPatient, "Other", "other@example.com")
	doctor := f.user(t, entity.RoleIDMedecin, "Doctor", "doctor@example.com")

	appointments := []entity.Appointment{
		{PatientID: patient.ID, DateTime: now.Add(-48 * time.Hour), Status: entity.AppointmentCompleted},
		{PatientID: patient.ID, DateTime: now.Add(-2 * time.Hour), Status: entity.AppointmentConfirmed},
		{PatientID: patient.ID, DateTime: now.Add(72 * time.Hour), Status: entity.AppointmentPending},
		{PatientID: patient.ID, DateTime: now.Add(96 * time.Hour), Status: entity.AppointmentCancelled},
		{PatientID: other.ID, DateTime: now.Add(3 * time.Hour), Status: entity.AppointmentPending},
	}
	for i := range appointments {
		appointments[i].TargetUserID = doctor.ID
		appointments[i].TargetRole = string(entity.RoleMedecin)
		require.NoError(t, f.db.Create(&appointments[i]).Error)
	}

	require.NoError(t, f.db.Create(&entity.Notification{UserID: patient.ID, Type: entity.NotificationAppointmentUpdated, Data: datatypes.JSONMap{}}).Error)

	annonces := []entity.Annonce{
		{Title: "A", Price: decimal.NewFromInt(100), PourcentageReduction: 20, IsActive: true},
		{Title: "B", Price: decimal.RequireFromString("49.99"), IsActive: true},
		{Title: "C", Price: decimal.NewFromInt(1000), IsActive: false},
	}
	for i := range annonces {
		annonces[i].UserID = doctor.ID
		require.NoError(t, f.db.Create(&annonces[i]).Error)
	}
	require.NoError(t, f.db.Model(&entity.Annonce{}).Where("title = ?", "C").Update("is_active", false).Error)

	patientStats, err := f.dashboard.PatientStats(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), patientStats.UpcomingAppointments)
	assert.Equal(t, int64(1), patientStats.CompletedAppointments)
	assert.Equal(t, int64(1), patientStats.Notifications)

	proStats, err := f.dashboard.ProfessionalStats(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), proStats.AppointmentsToday)
	assert.Equal(t, int64(2), proStats.TotalPatients)
	assert.Equal(t, int64(5), proStats.TotalAppointments)
	assert.Equal(t, int64(2), proStats.ActiveListings)
	assert.True(t, decimal.RequireFromString("129.99").Equal(proStats.ListingsValue), proStats.ListingsValue.String())
}
