package usecase

import (
	"context"
	"errors"

	"medilink-api/internal/converter"
	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
	"medilink-api/internal/domain/repository"
	"medilink-api/internal/service"
	"medilink-api/pkg/apperror"
	"medilink-api/pkg/jwt"
	"medilink-api/pkg/metrics"
	"medilink-api/pkg/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidDiploma = &apperror.Error{Kind: apperror.KindValidation, Message: "Invalid diploma", Fields: map[string]string{"diplomas": "diploma files must not be empty"}}

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, req *dto.LogoutRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	CheckEmail(ctx context.Context, req *dto.CheckEmailRequest) (*dto.CheckEmailResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	profileRepo  repository.ProfileRepository
	provisioner  ProfileProvisioner
	jwtService   *jwt.JWTService
	sessions     service.SessionStore
	auditService service.AuditService
	files        storage.FileStore
	metrics      *metrics.Metrics
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	profileRepo repository.ProfileRepository,
	provisioner ProfileProvisioner,
	jwtService *jwt.JWTService,
	sessions service.SessionStore,
	auditService service.AuditService,
	files storage.FileStore,
	metrics *metrics.Metrics,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		profileRepo:  profileRepo,
		provisioner:  provisioner,
		jwtService:   jwtService,
		sessions:     sessions,
		auditService: auditService,
		files:        files,
		metrics:      metrics,
	}
}

// Register creates the identity and its role profile in one transaction.
// Files written while provisioning are not covered by the transaction and
// are removed again when anything fails.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	var (
		kind    entity.RoleKind
		user    *entity.User
		written []string
	)
	fail := func(err error) (*dto.AuthResponse, error) {
		tx.Rollback()
		u.compensate(ctx, user, written)
		u.metrics.Registrations.WithLabelValues(roleLabel(kind), "failed").Inc()
		return nil, err
	}

	kind, err := u.resolveRole(ctx, tx, req.RoleID)
	if err != nil {
		return fail(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return fail(apperror.Internal(err))
	}

	user = &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		Password:     string(hashedPassword),
		Phone:        req.Phone,
		RoleID:       kind.ID(),
		IsVerified:   false,
		IsSubscribed: false,
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err) {
			return fail(ErrEmailTaken)
		}
		if isForeignKeyError(err) {
			return fail(ErrRoleNotFound)
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return fail(apperror.Internal(err))
	}

	profile, refs, err := u.provisioner.Provision(ctx, tx, user, kind, &req.ProfileFields)
	written = refs
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) {
			return fail(ErrInvalidDiploma)
		}
		return fail(apperror.Internal(err))
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return fail(apperror.Internal(err))
	}
	u.metrics.Registrations.WithLabelValues(roleLabel(kind), "success").Inc()

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	u.audit(ctx, &user.ID, entity.AuditActionUserRegister, map[string]interface{}{
		"role":  string(kind),
		"email": user.Email,
	})

	user.Role = entity.Role{ID: kind.ID(), Name: string(kind)}

	return &dto.AuthResponse{
		Message:      "Registration successful",
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		User:         converter.UserWithProfileToResponse(user, profile),
	}, nil
}

// resolveRole maps the requested id to a self-registrable role that exists in
// the roles table.
func (u *authUsecase) resolveRole(ctx context.Context, tx *gorm.DB, roleID int) (entity.RoleKind, error) {
	kind, ok := entity.ResolveRole(roleID)
	if !ok || !kind.Registrable() {
		return "", ErrRoleNotFound
	}

	role, err := u.roleRepo.FindByID(ctx, tx, roleID)
	if err != nil {
		u.log.Warnf("Failed to find role: %+v", err)
		return "", apperror.Internal(err)
	}
	if role == nil {
		return "", ErrRoleNotFound
	}

	return kind, nil
}

// compensate removes what a failed registration left behind after rollback.
func (u *authUsecase) compensate(ctx context.Context, user *entity.User, written []string) {
	ctx = context.WithoutCancel(ctx)

	if user != nil && user.ID != uuid.Nil {
		existing, err := u.userRepo.FindByID(ctx, u.db, user.ID)
		if err != nil {
			u.log.Errorf("Failed to check user %s after rollback: %+v", user.ID, err)
		} else if existing != nil {
			if err := u.userRepo.Delete(ctx, u.db, user.ID); err != nil {
				u.log.Errorf("Failed to delete user %s after failed registration: %+v", user.ID, err)
			}
		}
	}

	for _, ref := range written {
		if err := u.files.Delete(ref); err != nil {
			u.log.Errorf("Failed to remove %s after failed registration: %+v", ref, err)
			u.metrics.OrphanedFiles.Inc()
		}
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	// Find user by email (read-only, no transaction needed)
	user, err := u.userRepo.FindByEmail(ctx, u.db, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	u.audit(ctx, &user.ID, entity.AuditActionUserLogin, nil)

	return &dto.AuthResponse{
		Message:      "Login successful",
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		User:         converter.UserToResponse(user),
	}, nil
}

// Logout revokes the presented access token and, when given, the refresh
// token issued with it.
func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, req *dto.LogoutRequest) error {
	if err := u.sessions.Revoke(ctx, jwt.AccessToken, accessTokenID); err != nil {
		return apperror.Internal(err)
	}

	if req != nil && req.RefreshToken != "" {
		claims, err := u.jwtService.ValidateToken(req.RefreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			if err := u.sessions.Revoke(ctx, jwt.RefreshToken, claims.TokenID); err != nil {
				return apperror.Internal(err)
			}
		}
	}

	u.audit(ctx, &userID, entity.AuditActionUserLogout, nil)
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	// Validate refresh token
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.sessions.Exists(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Refresh tokens are single use
	if err := u.sessions.Revoke(ctx, jwt.RefreshToken, claims.TokenID); err != nil {
		return nil, apperror.Internal(err)
	}

	// Role may have changed since the token was issued
	user, err := u.userRepo.FindByID(ctx, u.db, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profile, err := findProfile(ctx, u.db, u.profileRepo, user)
	if err != nil {
		u.log.Warnf("Failed to find profile: %+v", err)
		return nil, apperror.Internal(err)
	}

	return converter.UserWithProfileToResponse(user, profile), nil
}

func (u *authUsecase) CheckEmail(ctx context.Context, req *dto.CheckEmailRequest) (*dto.CheckEmailResponse, error) {
	exists, err := u.userRepo.ExistsByEmail(ctx, u.db, req.Email)
	if err != nil {
		u.log.Warnf("Failed to check email: %+v", err)
		return nil, apperror.Internal(err)
	}
	return &dto.CheckEmailResponse{Exists: exists}, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, apperror.Internal(err)
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, apperror.Internal(err)
	}

	if err := u.sessions.Store(ctx, jwt.AccessToken, user.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := u.sessions.Store(ctx, jwt.RefreshToken, user.ID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		return nil, apperror.Internal(err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// audit writes an audit row outside any transaction; failures are logged only.
func (u *authUsecase) audit(ctx context.Context, userID *uuid.UUID, action string, metadata map[string]interface{}) {
	if err := u.auditService.Log(ctx, u.db, userID, action, metadata); err != nil {
		u.log.Warnf("Failed to audit %s: %+v", action, err)
	}
}

// findProfile loads the role profile of user, nil for roles without one.
func findProfile(ctx context.Context, db *gorm.DB, profileRepo repository.ProfileRepository, user *entity.User) (entity.Profile, error) {
	kind := user.Kind()
	if kind.ProfileTable() == "" {
		return nil, nil
	}
	return profileRepo.FindByUser(ctx, db, kind, user.ID)
}

func roleLabel(kind entity.RoleKind) string {
	if kind == "" {
		return "unknown"
	}
	return string(kind)
}
