package usecase

import (
	"context"

	"medilink-api/internal/converter"
	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
	"medilink-api/internal/domain/repository"
	"medilink-api/internal/service"
	"medilink-api/pkg/apperror"
	"medilink-api/pkg/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	avatarDir      = "avatars"
	maxAvatarBytes = 3 << 20
)

type UserUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, req *dto.UpdateAvatarRequest) (*dto.AvatarResponse, error)
}

type userUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	sessions     service.SessionStore
	auditService service.AuditService
	files        storage.FileStore
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	sessions service.SessionStore,
	auditService service.AuditService,
	files storage.FileStore,
) UserUsecase {
	return &userUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		sessions:     sessions,
		auditService: auditService,
		files:        files,
	}
}

// GetProfile returns the user with its role profile. Patients always get a
// profile row, created empty when missing.
func (u *userUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.findUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	var profile entity.Profile
	if user.Kind() == entity.RolePatient {
		patient, err := u.patientProfile(ctx, tx, user.ID)
		if err != nil {
			return nil, err
		}
		profile = patient
	} else {
		profile, err = findProfile(ctx, tx, u.profileRepo, user)
		if err != nil {
			u.log.Warnf("Failed to find profile: %+v", err)
			return nil, apperror.Internal(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	return converter.UserWithProfileToResponse(user, profile), nil
}

func (u *userUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.findUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	before := map[string]interface{}{
		"name":  user.Name,
		"email": user.Email,
		"phone": user.Phone,
	}

	user.Name = req.Name
	user.Email = req.Email
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	passwordChanged := req.Password != ""
	if passwordChanged {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, apperror.Internal(err)
		}
		user.Password = string(hashedPassword)
	}

	if err := u.userRepo.Update(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, apperror.Internal(err)
	}

	var profile entity.Profile
	if user.Kind() == entity.RolePatient {
		patient, err := u.patientProfile(ctx, tx, user.ID)
		if err != nil {
			return nil, err
		}

		applyMedicalFields(patient, req)
		if err := u.profileRepo.SavePatient(ctx, tx, patient); err != nil {
			u.log.Warnf("Failed to save patient profile: %+v", err)
			return nil, apperror.Internal(err)
		}
		profile = patient
	} else {
		profile, err = findProfile(ctx, tx, u.profileRepo, user)
		if err != nil {
			u.log.Warnf("Failed to find profile: %+v", err)
			return nil, apperror.Internal(err)
		}
	}

	after := map[string]interface{}{
		"name":             user.Name,
		"email":            user.Email,
		"phone":            user.Phone,
		"password_changed": passwordChanged,
	}
	if err := u.auditService.LogUpdate(ctx, tx, &user.ID, entity.AuditActionProfileUpdate, "user", user.ID.String(), before, after); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal(err)
	}

	// Sessions opened with the old password must not survive the change
	if passwordChanged {
		if err := u.sessions.RevokeAll(ctx, user.ID); err != nil {
			u.log.Warnf("Failed to revoke sessions of %s: %+v", user.ID, err)
		}
	}

	return converter.UserWithProfileToResponse(user, profile), nil
}

// UpdateAvatar stores the new picture, then removes the previous one.
func (u *userUsecase) UpdateAvatar(ctx context.Context, userID uuid.UUID, req *dto.UpdateAvatarRequest) (*dto.AvatarResponse, error) {
	if err := storage.CheckImage(req.Avatar, maxAvatarBytes); err != nil {
		return nil, ErrInvalidAvatar
	}

	user, err := u.findUser(ctx, u.db, userID)
	if err != nil {
		return nil, err
	}

	ref, err := u.files.Save(avatarDir, req.Avatar)
	if err != nil {
		u.log.Warnf("Failed to store avatar: %+v", err)
		return nil, apperror.Internal(err)
	}

	previous := user.ProfileImage
	user.ProfileImage = &ref
	if err := u.userRepo.Update(ctx, u.db, user); err != nil {
		u.log.Warnf("Failed to update avatar: %+v", err)
		if err := u.files.Delete(ref); err != nil {
			u.log.Errorf("Failed to remove unused avatar %s: %+v", ref, err)
		}
		return nil, apperror.Internal(err)
	}

	if previous != nil && *previous != "" && u.files.Exists(*previous) {
		if err := u.files.Delete(*previous); err != nil {
			u.log.Warnf("Failed to delete previous avatar %s: %+v", *previous, err)
		}
	}

	return &dto.AvatarResponse{Path: ref}, nil
}

func (u *userUsecase) findUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.User, error) {
	user, err := u.userRepo.FindByID(ctx, db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// patientProfile returns the patient's profile, creating an empty one if needed.
func (u *userUsecase) patientProfile(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	profile, err := u.profileRepo.FindPatient(ctx, tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, apperror.Internal(err)
	}
	if profile != nil {
		return profile, nil
	}

	profile = &entity.PatientProfile{ProfileBase: entity.ProfileBase{UserID: userID}}
	if err := u.profileRepo.Create(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func applyMedicalFields(profile *entity.PatientProfile, req *dto.UpdateProfileRequest) {
	if req.Age != nil {
		profile.Age = req.Age
	}
	if req.Gender != nil {
		profile.Gender = req.Gender
	}
	if req.BloodType != nil {
		profile.BloodType = req.BloodType
	}
	if req.Allergies != nil {
		profile.Allergies = datatypes.JSONSlice[string](req.Allergies)
	}
	if req.ChronicDiseases != nil {
		profile.ChronicDiseases = datatypes.JSONSlice[string](req.ChronicDiseases)
	}
}
