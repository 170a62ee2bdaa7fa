package repository

import (
	"context"
	"errors"
	"fmt"

	"medilink-api/internal/domain/entity"
	domainRepo "medilink-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type profileRepository struct{}

func NewProfileRepository() domainRepo.ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) Create(ctx context.Context, db *gorm.DB, profile entity.Profile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) FindByUser(ctx context.Context, db *gorm.DB, kind entity.RoleKind, userID uuid.UUID) (entity.Profile, error) {
	profiles, err := r.FindByKind(ctx, db, kind, userID)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return profiles[0], nil
}

// FindByKind loads profiles of one kind, optionally restricted to userIDs.
func (r *profileRepository) FindByKind(ctx context.Context, db *gorm.DB, kind entity.RoleKind, userIDs ...uuid.UUID) ([]entity.Profile, error) {
	query := db.WithContext(ctx)
	if len(userIDs) > 0 {
		query = query.Where("user_id IN ?", userIDs)
	}

	switch kind {
	case entity.RolePatient:
		return findProfiles[entity.PatientProfile](query)
	case entity.RoleMedecin:
		return findProfiles[entity.MedecinProfile](query)
	case entity.RoleKine:
		return findProfiles[entity.KineProfile](query)
	case entity.RoleOrthophoniste:
		return findProfiles[entity.OrthophonisteProfile](query)
	case entity.RolePsychologue:
		return findProfiles[entity.PsychologueProfile](query)
	case entity.RoleClinique:
		return findProfiles[entity.CliniqueProfile](query)
	case entity.RolePharmacie:
		return findProfiles[entity.PharmacieProfile](query)
	case entity.RoleParapharmacie:
		return findProfiles[entity.ParapharmacieProfile](query)
	case entity.RoleLaboAnalyse:
		return findProfiles[entity.LaboAnalyseProfile](query)
	case entity.RoleCentreRadiologie:
		return findProfiles[entity.CentreRadiologieProfile](query)
	default:
		return nil, fmt.Errorf("no profile table for role %q", kind)
	}
}

func findProfiles[T any, PT interface {
	*T
	entity.Profile
}](query *gorm.DB) ([]entity.Profile, error) {
	var rows []T
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	profiles := make([]entity.Profile, len(rows))
	for i := range rows {
		profiles[i] = PT(&rows[i])
	}
	return profiles, nil
}

// CountForUser counts profile rows owned by userID across every profile table.
func (r *profileRepository) CountForUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	var total int64
	for _, model := range entity.ProfileModels() {
		var count int64
		if err := db.WithContext(ctx).Model(model).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

func (r *profileRepository) FindPatient(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) SavePatient(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	return db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) IncrementMissedRdv(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	return db.WithContext(ctx).
		Model(&entity.PatientProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("missed_rdv", gorm.Expr("missed_rdv + ?", 1)).Error
}
