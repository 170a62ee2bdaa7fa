package usecase

import (
	"context"

	"medilink-api/internal/converter"
	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/repository"
	"medilink-api/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 100
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, query dto.AuditLogQuery) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, query dto.AuditLogQuery) (*dto.AuditLogListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	logs, total, err := u.auditLogRepo.FindAll(ctx, u.db, repository.AuditLogFilter{
		Action: query.Action,
		UserID: query.UserID,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, apperror.Internal(err)
	}

	return &dto.AuditLogListResponse{
		Logs:       converter.AuditLogsToResponses(logs),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, apperror.Internal(err)
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
