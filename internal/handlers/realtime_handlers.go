package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"assetTracker/internal/logger"
	"assetTracker/internal/middleware"
	"assetTracker/internal/notify"
	"assetTracker/internal/realtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const heartbeatInterval = 25 * time.Second

type RealtimeHandler struct {
	Hub      *realtime.Hub
	Toasts   ToastSource
	Profiles ProfileService
}

func NewRealtimeHandler(hub *realtime.Hub, toasts ToastSource, profiles ProfileService) RealtimeHandler {
	return RealtimeHandler{
		Hub:      hub,
		Toasts:   toasts,
		Profiles: profiles,
	}
}

// StreamChanges - SSE-поток изменений строк. Аутентифицированная
// сессия дополнительно получает события toast, кроме порождённых её
// собственными действиями.
func (h *RealtimeHandler) StreamChanges(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	flusher, ok := w.(http.Flusher)
	if !ok {
		responseWithError(w, http.StatusInternalServerError, "стриминг не поддерживается")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	var userID *uuid.UUID
	if actor := middleware.GetActor(r.Context()); actor != nil {
		userID = &actor.ID
	}

	changes, unsubscribe := h.Hub.Subscribe()
	defer unsubscribe()

	logger.Info("HTTP: SSE-сессия открыта", zap.String("client_ip", r.RemoteAddr))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Info("HTTP: SSE-сессия закрыта", zap.String("client_ip", r.RemoteAddr))
			return

		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()

		case change, open := <-changes:
			if !open {
				return
			}

			if err := writeSSE(w, "change", change); err != nil {
				return
			}

			if userID != nil {
				if toast := h.toastFromChange(r.Context(), change, *userID); toast != nil {
					if err := writeSSE(w, "toast", toast); err != nil {
						return
					}
				}
			}
			flusher.Flush()
		}
	}
}

// toastFromChange классифицирует изменение строки и строит тост для
// получателя userID; nil - событие не тостовое или получатель сам его
// совершил
func (h *RealtimeHandler) toastFromChange(ctx context.Context, change realtime.Change, userID uuid.UUID) *notify.Toast {
	if change.Truncated {
		return nil
	}

	oldRow, newRow := change.Rows()
	classified := notify.Classify(change.Table, change.Op, oldRow, newRow)
	if classified == nil || classified.SuppressFor(userID) {
		return nil
	}

	actorName := "Кто-то"
	if classified.ActorID != nil {
		if profile, err := h.Profiles.GetProfileByID(ctx, *classified.ActorID); err == nil {
			actorName = profile.Label()
		} else {
			logger.Warn("Realtime: не удалось получить профиль автора события",
				zap.String("actor_id", classified.ActorID.String()), zap.Error(err))
		}
	}

	title, message, variant := notify.Render(classified.Type, actorName, classified.ItemName, false)
	return &notify.Toast{
		ID:        uuid.New(),
		Type:      classified.Type,
		Title:     title,
		Message:   message,
		Variant:   variant,
		Duration:  notify.ToastDuration,
		CreatedAt: time.Now(),
	}
}

func writeSSE(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

// GetToasts отдаёт активные тосты текущего процесса (poll-вариант для
// клиентов без SSE)
func (h *RealtimeHandler) GetToasts(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	responseWithList(w, http.StatusOK, "toasts", h.Toasts.Active())
}
