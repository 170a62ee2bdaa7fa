package converter

import (
	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
)

// AuditLogToResponse converts a AuditLog entity to AuditLogResponse DTO
func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	response := &dto.AuditLogResponse{
		ID:        log.ID,
		Action:    log.Action,
		Metadata:  log.Metadata,
		CreatedAt: log.CreatedAt,
	}

	if log.User != nil {
		response.User = &dto.AuditLogUserResponse{
			ID:    log.User.ID,
			Name:  log.User.Name,
			Email: log.User.Email,
			Role:  log.User.Role.Name,
		}
	}

	return response
}

// AuditLogsToResponses converts a slice of AuditLog entities to slice of AuditLogResponse DTOs
func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i := range logs {
		responses[i] = *AuditLogToResponse(&logs[i])
	}
	return responses
}
