package handler

import (
	"net/http"
	"strconv"

	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/usecase"
	"medilink-api/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	auditLogID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		response.FromError(w, err, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// GetAllAuditLogs supports ?action=, ?user_id=, ?page= and ?limit=.
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := dto.AuditLogQuery{Action: q.Get("action")}
	fields := map[string]string{}

	if raw := q.Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fields["user_id"] = "user_id must be a valid UUID"
		} else {
			query.UserID = &id
		}
	}
	for key, target := range map[string]*int{"page": &query.Page, "limit": &query.Limit} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields[key] = key + " must be an integer"
			continue
		}
		*target = n
	}
	if len(fields) > 0 {
		response.ValidationError(w, fields)
		return
	}

	auditLogs, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), query)
	if err != nil {
		response.FromError(w, err, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs.Logs, &response.Meta{
		Page:       auditLogs.Page,
		Limit:      auditLogs.Limit,
		Total:      auditLogs.Total,
		TotalPages: auditLogs.TotalPages,
	})
}
