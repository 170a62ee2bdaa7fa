package usecase

import (
	"context"

	"medilink-api/internal/converter"
	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
	"medilink-api/internal/domain/repository"
	"medilink-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DirectoryUsecase lists professionals for patients looking for care.
type DirectoryUsecase interface {
	ListMedecins(ctx context.Context) ([]dto.MedecinResponse, error)
	GetMedecin(ctx context.Context, id uuid.UUID) (*dto.MedecinResponse, error)
	ListOrganisations(ctx context.Context) ([]dto.OrganisationResponse, error)
}

type directoryUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

func NewDirectoryUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
) DirectoryUsecase {
	return &directoryUsecase{
		db:          db,
		log:         log,
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func (u *directoryUsecase) ListMedecins(ctx context.Context) ([]dto.MedecinResponse, error) {
	users, err := u.userRepo.FindByRole(ctx, u.db, entity.RoleIDMedecin)
	if err != nil {
		u.log.Warnf("Failed to find medecins: %+v", err)
		return nil, apperror.Internal(err)
	}

	profiles, err := u.profilesOf(ctx, entity.RoleMedecin, users)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MedecinResponse, 0, len(users))
	for i := range users {
		profile, _ := profiles[users[i].ID].(*entity.MedecinProfile)
		responses = append(responses, *converter.MedecinToResponse(&users[i], profile, false))
	}
	return responses, nil
}

func (u *directoryUsecase) GetMedecin(ctx context.Context, id uuid.UUID) (*dto.MedecinResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find medecin: %+v", err)
		return nil, apperror.Internal(err)
	}
	if user == nil || user.Kind() != entity.RoleMedecin {
		return nil, ErrMedecinNotFound
	}

	found, err := u.profileRepo.FindByUser(ctx, u.db, entity.RoleMedecin, user.ID)
	if err != nil {
		u.log.Warnf("Failed to find medecin profile: %+v", err)
		return nil, apperror.Internal(err)
	}

	profile, _ := found.(*entity.MedecinProfile)
	return converter.MedecinToResponse(user, profile, true), nil
}

// ListOrganisations walks every facility kind, in role order.
func (u *directoryUsecase) ListOrganisations(ctx context.Context) ([]dto.OrganisationResponse, error) {
	responses := []dto.OrganisationResponse{}

	for _, kind := range entity.RoleKindsOf(entity.FamilyFacility) {
		users, err := u.userRepo.FindByRole(ctx, u.db, kind.ID())
		if err != nil {
			u.log.Warnf("Failed to find %s users: %+v", kind, err)
			return nil, apperror.Internal(err)
		}

		profiles, err := u.profilesOf(ctx, kind, users)
		if err != nil {
			return nil, err
		}

		for i := range users {
			facility, ok := profiles[users[i].ID].(entity.FacilityProfile)
			if !ok {
				continue
			}
			responses = append(responses, converter.OrganisationToResponse(&users[i], facility))
		}
	}

	return responses, nil
}

func (u *directoryUsecase) profilesOf(ctx context.Context, kind entity.RoleKind, users []entity.User) (map[uuid.UUID]entity.Profile, error) {
	byOwner := make(map[uuid.UUID]entity.Profile, len(users))
	if len(users) == 0 {
		return byOwner, nil
	}

	ids := make([]uuid.UUID, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}

	profiles, err := u.profileRepo.FindByKind(ctx, u.db, kind, ids...)
	if err != nil {
		u.log.Warnf("Failed to find %s profiles: %+v", kind, err)
		return nil, apperror.Internal(err)
	}

	for _, profile := range profiles {
		byOwner[profile.OwnerID()] = profile
	}
	return byOwner, nil
}
