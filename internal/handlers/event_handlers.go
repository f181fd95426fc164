package handlers

import (
	"net/http"
	"time"

	"assetTracker/internal/handlers/dto"
	"assetTracker/internal/logger"
	"assetTracker/internal/middleware"
	"assetTracker/internal/service"

	"go.uber.org/zap"
)

type EventHandler struct {
	EventService EventService
}

func NewEventHandler(eventService EventService) EventHandler {
	return EventHandler{
		EventService: eventService,
	}
}

// ListEvents отдаёт события календаря за период from..to (RFC3339,
// по умолчанию месяц вокруг текущей даты)
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now.AddDate(0, 1, 0)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			responseWithError(w, http.StatusBadRequest, "неверное значение from: "+err.Error())
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			responseWithError(w, http.StatusBadRequest, "неверное значение to: "+err.Error())
			return
		}
		to = parsed
	}

	events, err := h.EventService.ListEvents(r.Context(), from, to)
	if err != nil {
		serviceError(w, r, "list_events", err)
		return
	}

	logger.Info("HTTP_OUT: События получены",
		zap.Int("count", len(events)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithList(w, http.StatusOK, "events", events)
}

func (h *EventHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateEventRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if request.Title == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "title"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "название не может быть пустым")
		return
	}

	if request.EventDate.IsZero() {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "event_date"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "дата события должна быть задана")
		return
	}

	actor := middleware.GetActor(r.Context())
	event, err := h.EventService.CreateEvent(r.Context(), actor, service.CreateEventParams{
		Type:           request.Type,
		Title:          request.Title,
		Description:    request.Description,
		EventDate:      request.EventDate,
		EventTime:      request.EventTime,
		Visibility:     request.Visibility,
		LinkedAssetID:  request.LinkedAssetID,
		AutoCreateTask: request.AutoCreateTask,
	})
	if err != nil {
		serviceError(w, r, "create_event", err)
		return
	}

	logger.Info("HTTP_OUT: Событие создано",
		zap.String("event_id", event.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("event", event))
}

func (h *EventHandler) GetEventByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	event, err := h.EventService.GetEventByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, "get_event", err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("event", event))
}

func (h *EventHandler) UpdateEventByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.UpdateEventRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	actor := middleware.GetActor(r.Context())
	event, err := h.EventService.UpdateEvent(r.Context(), actor, id, service.UpdateEventParams{
		Type:           request.Type,
		Title:          request.Title,
		Description:    request.Description,
		EventDate:      request.EventDate,
		EventTime:      request.EventTime,
		Visibility:     request.Visibility,
		LinkedAssetID:  request.LinkedAssetID,
		AutoCreateTask: request.AutoCreateTask,
	})
	if err != nil {
		serviceError(w, r, "update_event", err)
		return
	}

	logger.Info("HTTP_OUT: Событие обновлено",
		zap.String("event_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("event", event))
}

func (h *EventHandler) DeleteEventByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())

	// ?with_task=true удаляет и связанную задачу
	var err error
	if r.URL.Query().Get("with_task") == "true" {
		err = h.EventService.DeleteEventWithLinkedTask(r.Context(), actor, id)
	} else {
		err = h.EventService.DeleteEvent(r.Context(), actor, id)
	}
	if err != nil {
		serviceError(w, r, "delete_event", err)
		return
	}

	logger.Info("HTTP_OUT: Событие удалено",
		zap.String("event_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) PostTaskFromEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.CreateTaskFromEventRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	actor := middleware.GetActor(r.Context())
	asset, err := h.EventService.CreateTaskFromDeliverable(r.Context(), actor, id, request.Category, request.Priority)
	if err != nil {
		serviceError(w, r, "create_task_from_event", err)
		return
	}

	logger.Info("HTTP_OUT: Задача из события создана",
		zap.String("event_id", id.String()),
		zap.String("asset_id", asset.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("asset", asset))
}
