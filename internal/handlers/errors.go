package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ShazSiddiq/Employee-Engagement-System/internal/logger"
	"github.com/ShazSiddiq/Employee-Engagement-System/internal/service"
)

// handleBusinessError переводит типизированную ошибку сервиса в HTTP-ответ.
// Возвращает false, если ошибка не бизнесовая и её надо отдать как 500
func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithJSON(w, statusCode,
			toPayload("error", businessErr.Code),
			toPayload("message", businessErr.Message),
			toPayload("details", businessErr.Details),
		)
		return true
	}
	return false
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "VALIDATION_ERROR":
		return http.StatusBadRequest
	case "VERSION_CONFLICT":
		return http.StatusConflict
	case "ARCHIVED_IMMUTABLE", "EXPIRED_CANNOT_RESUME",
		"MUST_CONFIRM_COMPLETION", "INVALID_TARGET_STAGE",
		"EXTENSION_PENDING", "NO_EXTENSION_PENDING":
		return http.StatusConflict
	case "TASK_DELETED":
		return http.StatusGone
	default:
		return http.StatusBadRequest
	}
}

func serviceError(w http.ResponseWriter, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}
	logger.Error("HTTP: Ошибка Service", err, zap.String("operation", operation))
	responseWithError(w, http.StatusInternalServerError, err.Error())
}
