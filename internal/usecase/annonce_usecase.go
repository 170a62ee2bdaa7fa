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
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	annonceImageDir      = "annonces"
	maxAnnonceImageBytes = 5 << 20
)

type AnnonceUsecase interface {
	Create(ctx context.Context, actor entity.Actor, req *dto.CreateAnnonceRequest) (*dto.AnnonceResponse, error)
	ListOwn(ctx context.Context, actor entity.Actor, ownerID *uuid.UUID) ([]dto.AnnonceResponse, error)
	ListPublic(ctx context.Context, query dto.AnnonceQuery) ([]dto.AnnonceResponse, error)
	Show(ctx context.Context, id uuid.UUID, actor entity.Actor) (*dto.AnnonceResponse, error)
	Update(ctx context.Context, id uuid.UUID, actor entity.Actor, req *dto.UpdateAnnonceRequest) (*dto.AnnonceResponse, error)
	ToggleStatus(ctx context.Context, id uuid.UUID, actor entity.Actor, req *dto.ToggleAnnonceStatusRequest) (*dto.AnnonceResponse, error)
	Delete(ctx context.Context, id uuid.UUID, actor entity.Actor) error
}

type annonceUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	annonceRepo  repository.AnnonceRepository
	auditService service.AuditService
	files        storage.FileStore
}

func NewAnnonceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	annonceRepo repository.AnnonceRepository,
	auditService service.AuditService,
	files storage.FileStore,
) AnnonceUsecase {
	return &annonceUsecase{
		db:           db,
		log:          log,
		annonceRepo:  annonceRepo,
		auditService: auditService,
		files:        files,
	}
}

func (u *annonceUsecase) Create(ctx context.Context, actor entity.Actor, req *dto.CreateAnnonceRequest) (*dto.AnnonceResponse, error) {
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	refs, err := u.storeImages(req.Images)
	if err != nil {
		return nil, err
	}

	discount := 0
	if req.PourcentageReduction != nil {
		discount = entity.ClampDiscount(*req.PourcentageReduction)
	}

	annonce := &entity.Annonce{
		UserID:               actor.UserID,
		Title:                req.Title,
		Description:          req.Description,
		Price:                price,
		Address:              req.Address,
		Phone:                req.Phone,
		Email:                req.Email,
		Images:               datatypes.JSONSlice[string](refs),
		IsActive:             req.IsActive != nil && *req.IsActive,
		PourcentageReduction: discount,
	}

	err = u.inTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.annonceRepo.Create(ctx, tx, annonce); err != nil {
			u.log.Warnf("Failed to create annonce: %+v", err)
			return apperror.Internal(err)
		}
		return u.auditService.LogCreate(ctx, tx, &actor.UserID, entity.AuditActionAnnonceCreate, "annonce", annonce.ID.String(), snapshot(annonce))
	})
	if err != nil {
		u.removeFiles(refs)
		return nil, err
	}

	return converter.AnnonceToResponse(annonce), nil
}

// ListOwn lists the caller's announcements. Admins may list another owner's.
func (u *annonceUsecase) ListOwn(ctx context.Context, actor entity.Actor, ownerID *uuid.UUID) ([]dto.AnnonceResponse, error) {
	owner := actor.UserID
	if ownerID != nil && actor.IsAdmin() {
		owner = *ownerID
	}

	annonces, err := u.annonceRepo.FindByOwner(ctx, u.db, owner)
	if err != nil {
		u.log.Warnf("Failed to find annonces: %+v", err)
		return nil, apperror.Internal(err)
	}
	return converter.AnnoncesToResponses(annonces), nil
}

func (u *annonceUsecase) ListPublic(ctx context.Context, query dto.AnnonceQuery) ([]dto.AnnonceResponse, error) {
	annonces, err := u.annonceRepo.FindPublic(ctx, u.db, repository.AnnonceFilter{
		Search:   query.Search,
		Category: query.Category,
	})
	if err != nil {
		u.log.Warnf("Failed to find public annonces: %+v", err)
		return nil, apperror.Internal(err)
	}
	return converter.AnnoncesToResponses(annonces), nil
}

// Show returns an announcement; inactive ones only to their owner or an admin.
func (u *annonceUsecase) Show(ctx context.Context, id uuid.UUID, actor entity.Actor) (*dto.AnnonceResponse, error) {
	annonce, err := u.find(ctx, u.db, id)
	if err != nil {
		return nil, err
	}
	if !annonce.IsActive && !actor.CanManage(annonce.UserID) {
		return nil, ErrAnnonceHidden
	}
	return converter.AnnonceToResponse(annonce), nil
}

// Update applies a partial update. New images replace the stored ones unless
// KeepImages is set, in which case they are appended.
func (u *annonceUsecase) Update(ctx context.Context, id uuid.UUID, actor entity.Actor, req *dto.UpdateAnnonceRequest) (*dto.AnnonceResponse, error) {
	annonce, err := u.findManaged(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	var price *decimal.Decimal
	if req.Price != nil {
		parsed, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		price = &parsed
	}

	refs, err := u.storeImages(req.Images)
	if err != nil {
		return nil, err
	}

	before := snapshot(annonce)

	var replaced []string
	if len(refs) > 0 {
		if req.KeepImages {
			annonce.Images = append(annonce.Images, refs...)
		} else {
			replaced = annonce.Images
			annonce.Images = datatypes.JSONSlice[string](refs)
		}
	}

	applyAnnonceUpdate(annonce, req, price)

	err = u.inTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.annonceRepo.Update(ctx, tx, annonce); err != nil {
			u.log.Warnf("Failed to update annonce: %+v", err)
			return apperror.Internal(err)
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditActionAnnonceUpdate, "annonce", annonce.ID.String(), before, snapshot(annonce))
	})
	if err != nil {
		u.removeFiles(refs)
		return nil, err
	}

	u.removeFiles(replaced)
	return converter.AnnonceToResponse(annonce), nil
}

// ToggleStatus sets is_active when given, otherwise flips it.
func (u *annonceUsecase) ToggleStatus(ctx context.Context, id uuid.UUID, actor entity.Actor, req *dto.ToggleAnnonceStatusRequest) (*dto.AnnonceResponse, error) {
	annonce, err := u.findManaged(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	before := snapshot(annonce)
	if req != nil && req.IsActive != nil {
		annonce.IsActive = *req.IsActive
	} else {
		annonce.IsActive = !annonce.IsActive
	}

	err = u.inTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.annonceRepo.Update(ctx, tx, annonce); err != nil {
			u.log.Warnf("Failed to toggle annonce status: %+v", err)
			return apperror.Internal(err)
		}
		return u.auditService.LogUpdate(ctx, tx, &actor.UserID, entity.AuditActionAnnonceUpdate, "annonce", annonce.ID.String(), before, snapshot(annonce))
	})
	if err != nil {
		return nil, err
	}

	return converter.AnnonceToResponse(annonce), nil
}

// Delete removes the row, then its image files. File removal failures are
// logged and do not fail the call.
func (u *annonceUsecase) Delete(ctx context.Context, id uuid.UUID, actor entity.Actor) error {
	annonce, err := u.findManaged(ctx, id, actor)
	if err != nil {
		return err
	}

	err = u.inTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.annonceRepo.Delete(ctx, tx, annonce.ID); err != nil {
			u.log.Warnf("Failed to delete annonce: %+v", err)
			return apperror.Internal(err)
		}
		return u.auditService.LogDelete(ctx, tx, &actor.UserID, entity.AuditActionAnnonceDelete, "annonce", annonce.ID.String(), snapshot(annonce))
	})
	if err != nil {
		return err
	}

	u.removeFiles(annonce.Images)
	return nil
}

func (u *annonceUsecase) find(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Annonce, error) {
	annonce, err := u.annonceRepo.FindByID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find annonce: %+v", err)
		return nil, apperror.Internal(err)
	}
	if annonce == nil {
		return nil, ErrAnnonceNotFound
	}
	return annonce, nil
}

func (u *annonceUsecase) findManaged(ctx context.Context, id uuid.UUID, actor entity.Actor) (*entity.Annonce, error) {
	annonce, err := u.find(ctx, u.db, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(annonce.UserID) {
		return nil, ErrAnnonceForbidden
	}
	return annonce, nil
}

func (u *annonceUsecase) inTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return apperror.Internal(err)
	}
	return nil
}

// storeImages checks every image before writing any of them.
func (u *annonceUsecase) storeImages(images []storage.File) ([]string, error) {
	for _, image := range images {
		if err := storage.CheckImage(image, maxAnnonceImageBytes); err != nil {
			return nil, ErrInvalidImage
		}
	}

	refs := make([]string, 0, len(images))
	for _, image := range images {
		ref, err := u.files.Save(annonceImageDir, image)
		if err != nil {
			u.log.Warnf("Failed to store annonce image: %+v", err)
			u.removeFiles(refs)
			return nil, apperror.Internal(err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (u *annonceUsecase) removeFiles(refs []string) {
	for _, ref := range refs {
		if !u.files.Exists(ref) {
			continue
		}
		if err := u.files.Delete(ref); err != nil {
			u.log.Warnf("Failed to delete file %s: %+v", ref, err)
		}
	}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}
	// Prices are stored as decimal(12,2)
	return price.Round(2), nil
}

func applyAnnonceUpdate(annonce *entity.Annonce, req *dto.UpdateAnnonceRequest, price *decimal.Decimal) {
	if req.Title != nil {
		annonce.Title = *req.Title
	}
	if req.Description != nil {
		annonce.Description = *req.Description
	}
	if price != nil {
		annonce.Price = *price
	}
	if req.Address != nil {
		annonce.Address = *req.Address
	}
	if req.Phone != nil {
		annonce.Phone = *req.Phone
	}
	if req.Email != nil {
		annonce.Email = *req.Email
	}
	if req.IsActive != nil {
		annonce.IsActive = *req.IsActive
	}
	if req.PourcentageReduction != nil {
		annonce.PourcentageReduction = entity.ClampDiscount(*req.PourcentageReduction)
	}
}

func snapshot(annonce *entity.Annonce) map[string]interface{} {
	return map[string]interface{}{
		"title":                 annonce.Title,
		"price":                 annonce.Price.String(),
		"is_active":             annonce.IsActive,
		"pourcentage_reduction": annonce.PourcentageReduction,
		"images":                []string(annonce.Images),
	}
}
