package handlers

import (
	"net/http"
	"time"

	"assetTracker/internal/handlers/dto"
	"assetTracker/internal/logger"
	"assetTracker/internal/middleware"
	"assetTracker/internal/models"

	"go.uber.org/zap"
)

// RequestHandler обслуживает и model requests, и feature requests:
// форма одна, разница только в сервисе за спиной
type RequestHandler struct {
	Service RequestService
	label   string
}

func NewRequestHandler(service RequestService, label string) RequestHandler {
	return RequestHandler{
		Service: service,
		label:   label,
	}
}

func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var status *models.RequestStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.RequestStatus(raw)
		if s != models.RequestOpen && s != models.RequestAccepted && s != models.RequestDenied {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "status"),
				zap.String("value", raw),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "неверное значение status")
			return
		}
		status = &s
	}

	requests, err := h.Service.ListRequests(r.Context(), status)
	if err != nil {
		serviceError(w, r, "list_"+h.label, err)
		return
	}

	logger.Info("HTTP_OUT: Заявки получены",
		zap.String("kind", h.label),
		zap.Int("count", len(requests)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithList(w, http.StatusOK, "requests", requests)
}

func (h *RequestHandler) PostRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateRequestRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if request.Name == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "name"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "название не может быть пустым")
		return
	}

	actor := middleware.GetActor(r.Context())
	created, err := h.Service.CreateRequest(r.Context(), actor, request.Name, request.Description, request.Priority)
	if err != nil {
		serviceError(w, r, "create_"+h.label, err)
		return
	}

	logger.Info("HTTP_OUT: Заявка создана",
		zap.String("kind", h.label),
		zap.String("request_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("request", created))
}

func (h *RequestHandler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	found, err := h.Service.GetRequestByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, "get_"+h.label, err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("request", found))
}

// AcceptRequest принимает заявку и отдаёт созданную из неё задачу
func (h *RequestHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())
	accepted, asset, err := h.Service.AcceptRequest(r.Context(), actor, id)
	if err != nil {
		serviceError(w, r, "accept_"+h.label, err)
		return
	}

	logger.Info("HTTP_OUT: Заявка принята",
		zap.String("kind", h.label),
		zap.String("request_id", id.String()),
		zap.String("asset_id", asset.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("request", accepted),
		toPayload("asset", asset),
	)
}

func (h *RequestHandler) DenyRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.DenyRequestRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	actor := middleware.GetActor(r.Context())
	denied, err := h.Service.DenyRequest(r.Context(), actor, id, request.Reason)
	if err != nil {
		serviceError(w, r, "deny_"+h.label, err)
		return
	}

	logger.Info("HTTP_OUT: Заявка отклонена",
		zap.String("kind", h.label),
		zap.String("request_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("request", denied))
}

func (h *RequestHandler) DeleteRequestByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.Service.DeleteRequest(r.Context(), actor, id); err != nil {
		serviceError(w, r, "delete_"+h.label, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
