package handler

import (
	"net/http"

	"medilink-api/internal/delivery/http/middleware"
	"medilink-api/internal/usecase"
	"medilink-api/pkg/response"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{notificationUsecase: notificationUsecase}
}

// List
// @Summary My notifications
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	notifications, err := h.notificationUsecase.List(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to get notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications retrieved successfully", notifications)
}

// MarkRead
// @Summary Mark one notification read
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.notificationUsecase.MarkRead(r.Context(), id, userID); err != nil {
		response.FromError(w, err, "Failed to mark notification read")
		return
	}

	response.Success(w, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllRead
// @Summary Mark every notification read
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	count, err := h.notificationUsecase.MarkAllRead(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to mark notifications read")
		return
	}

	response.Success(w, http.StatusOK, "Notifications marked as read", map[string]int64{"updated": count})
}
