package usecase

import (
	"context"
	"time"

	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/repository"
	"medilink-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DashboardUsecase interface {
	PatientStats(ctx context.Context, patientID uuid.UUID) (*dto.PatientStatsResponse, error)
	ProfessionalStats(ctx context.Context, professionalID uuid.UUID) (*dto.ProfessionalStatsResponse, error)
}

type dashboardUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	annonceRepo      repository.AnnonceRepository
	notificationRepo repository.NotificationRepository
	now              func() time.Time
}

func NewDashboardUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	annonceRepo repository.AnnonceRepository,
	notificationRepo repository.NotificationRepository,
) DashboardUsecase {
	return &dashboardUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		annonceRepo:      annonceRepo,
		notificationRepo: notificationRepo,
		now:              time.Now,
	}
}

// startOfToday is midnight UTC, the day boundary used by every counter.
func (u *dashboardUsecase) startOfToday() time.Time {
	now := u.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (u *dashboardUsecase) PatientStats(ctx context.Context, patientID uuid.UUID) (*dto.PatientStatsResponse, error) {
	today := u.startOfToday()

	upcoming, err := u.appointmentRepo.CountForPatientSince(ctx, u.db, patientID, today)
	if err != nil {
		u.log.Warnf("Failed to count upcoming appointments: %+v", err)
		return nil, apperror.Internal(err)
	}

	completed, err := u.appointmentRepo.CountForPatientBefore(ctx, u.db, patientID, today)
	if err != nil {
		u.log.Warnf("Failed to count past appointments: %+v", err)
		return nil, apperror.Internal(err)
	}

	unread, err := u.notificationRepo.CountUnread(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to count notifications: %+v", err)
		return nil, apperror.Internal(err)
	}

	return &dto.PatientStatsResponse{
		UpcomingAppointments:  upcoming,
		CompletedAppointments: completed,
		Notifications:         unread,
	}, nil
}

func (u *dashboardUsecase) ProfessionalStats(ctx context.Context, professionalID uuid.UUID) (*dto.ProfessionalStatsResponse, error) {
	today := u.startOfToday()

	appointmentsToday, err := u.appointmentRepo.CountForTargetBetween(ctx, u.db, professionalID, today, today.AddDate(0, 0, 1))
	if err != nil {
		u.log.Warnf("Failed to count today's appointments: %+v", err)
		return nil, apperror.Internal(err)
	}

	patients, err := u.appointmentRepo.CountDistinctPatients(ctx, u.db, professionalID)
	if err != nil {
		u.log.Warnf("Failed to count patients: %+v", err)
		return nil, apperror.Internal(err)
	}

	total, err := u.appointmentRepo.CountForTarget(ctx, u.db, professionalID)
	if err != nil {
		u.log.Warnf("Failed to count appointments: %+v", err)
		return nil, apperror.Internal(err)
	}

	active, err := u.annonceRepo.FindActiveByOwner(ctx, u.db, professionalID)
	if err != nil {
		u.log.Warnf("Failed to find active annonces: %+v", err)
		return nil, apperror.Internal(err)
	}

	value := decimal.Zero
	for i := range active {
		value = value.Add(active[i].DiscountedPrice())
	}

	return &dto.ProfessionalStatsResponse{
		AppointmentsToday: appointmentsToday,
		TotalPatients:     patients,
		TotalAppointments: total,
		ActiveListings:    int64(len(active)),
		ListingsValue:     value,
	}, nil
}
