package converter

import (
	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
)

func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Data:      n.Data,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		}
	}
	return responses
}
