package handlers

import (
	"errors"
	"net/http"

	"assetTracker/internal/logger"
	"assetTracker/internal/service"

	"go.uber.org/zap"
)

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
	case "NOT_AUTHENTICATED":
		return http.StatusUnauthorized
	case "FORBIDDEN", "USER_BLOCKED":
		return http.StatusForbidden
	case "ALREADY_CLAIMED", "NOT_CLAIMED", "ALREADY_RESOLVED",
		"ALREADY_IN_SPRINT", "DEPENDENCY_EXISTS", "VERSION_CONFLICT",
		"EMAIL_TAKEN", "SELF_BLOCK", "NOT_DELIVERABLE":
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// serviceError - общий хвост обработчиков: бизнес-ошибка уходит со
// своим кодом, всё остальное логируется целиком, а клиенту отдаётся
// очищенный текст
func serviceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	if handleBusinessError(w, err) {
		return
	}

	logger.Error("HTTP: Ошибка Service", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusInternalServerError, Sanitize(err))
}
