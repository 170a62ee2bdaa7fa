package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"medilink-api/pkg/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ErrorBody is the client-visible part of an error response.
type ErrorBody struct {
	Kind   apperror.Kind     `json:"kind"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(w http.ResponseWriter, statusCode int, message string, data interface{}, meta *Meta) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, err interface{}) {
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Error:   err,
	})
}

func ValidationError(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, Response{
		Success: false,
		Message: "Validation failed",
		Error:   ErrorBody{Kind: apperror.KindValidation, Fields: fields},
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, message, ErrorBody{Kind: apperror.KindUnauthorized})
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(w, http.StatusNotFound, message, ErrorBody{Kind: apperror.KindNotFound})
}

func InternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(w, http.StatusInternalServerError, message, ErrorBody{Kind: apperror.KindInternal})
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(w, http.StatusForbidden, message, ErrorBody{Kind: apperror.KindForbidden})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusUnprocessableEntity
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindDomain:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err as a structured error response. Errors that are not
// *apperror.Error, and internal ones, are reported with fallback only.
func FromError(w http.ResponseWriter, err error, fallback string) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindInternal {
		InternalServerError(w, fallback)
		return
	}

	Error(w, StatusFor(appErr.Kind), appErr.Message, ErrorBody{Kind: appErr.Kind, Fields: appErr.Fields})
}
