package handlers

import (
	"net/http"
	"time"

	"assetTracker/internal/handlers/dto"
	"assetTracker/internal/logger"
	"assetTracker/internal/middleware"
	"assetTracker/internal/models"
	"assetTracker/internal/service"

	"go.uber.org/zap"
)

type SprintHandler struct {
	SprintService SprintService
}

func NewSprintHandler(sprintService SprintService) SprintHandler {
	return SprintHandler{
		SprintService: sprintService,
	}
}

func (h *SprintHandler) ListSprints(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var status *models.SprintStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.SprintStatus(raw)
		if s != models.SprintActive && s != models.SprintCompleted {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "status"),
				zap.String("value", raw),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "неверное значение status")
			return
		}
		status = &s
	}

	sprints, err := h.SprintService.ListSprints(r.Context(), status)
	if err != nil {
		serviceError(w, r, "list_sprints", err)
		return
	}

	logger.Info("HTTP_OUT: Спринты получены",
		zap.Int("count", len(sprints)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithList(w, http.StatusOK, "sprints", sprints)
}

func (h *SprintHandler) PostSprint(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateSprintRequest
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
	sprint, err := h.SprintService.CreateSprint(r.Context(), actor, request.Name, request.Description)
	if err != nil {
		serviceError(w, r, "create_sprint", err)
		return
	}

	logger.Info("HTTP_OUT: Спринт создан",
		zap.String("sprint_id", sprint.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("sprint", sprint))
}

func (h *SprintHandler) GetSprintByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	sprint, err := h.SprintService.GetSprintByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, "get_sprint", err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("sprint", sprint))
}

func (h *SprintHandler) UpdateSprintByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.UpdateSprintRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	actor := middleware.GetActor(r.Context())
	sprint, err := h.SprintService.UpdateSprint(r.Context(), actor, id, request.Name, request.Description)
	if err != nil {
		serviceError(w, r, "update_sprint", err)
		return
	}

	logger.Info("HTTP_OUT: Спринт обновлён",
		zap.String("sprint_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("sprint", sprint))
}

func (h *SprintHandler) DeleteSprintByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.SprintService.DeleteSprint(r.Context(), actor, id); err != nil {
		serviceError(w, r, "delete_sprint", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SprintHandler) GetSprintTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	tasks, err := h.SprintService.ListTasks(r.Context(), id)
	if err != nil {
		serviceError(w, r, "list_sprint_tasks", err)
		return
	}

	responseWithList(w, http.StatusOK, "tasks", tasks)
}

func (h *SprintHandler) PostSprintTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.AddSprintTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	orderIndex := -1
	if request.OrderIndex != nil {
		orderIndex = *request.OrderIndex
	}

	actor := middleware.GetActor(r.Context())
	link, err := h.SprintService.AddTask(r.Context(), actor, id, request.AssetID, orderIndex)
	if err != nil {
		serviceError(w, r, "add_sprint_task", err)
		return
	}

	logger.Info("HTTP_OUT: Задача добавлена в спринт",
		zap.String("sprint_id", id.String()),
		zap.String("asset_id", request.AssetID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("sprint_task", link))
}

func (h *SprintHandler) DeleteSprintTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	assetID, ok := parseID(w, r, "assetId")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.SprintService.RemoveTask(r.Context(), actor, id, assetID); err != nil {
		serviceError(w, r, "remove_sprint_task", err)
		return
	}

	logger.Info("HTTP_OUT: Задача убрана из спринта",
		zap.String("sprint_id", id.String()),
		zap.String("asset_id", assetID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (h *SprintHandler) ReorderSprintTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.ReorderTasksRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	orders := make([]service.TaskOrder, 0, len(request.Orders))
	for _, o := range request.Orders {
		orders = append(orders, service.TaskOrder{
			AssetID:    o.AssetID,
			OrderIndex: o.OrderIndex,
		})
	}

	actor := middleware.GetActor(r.Context())
	if err := h.SprintService.ReorderTasks(r.Context(), actor, id, orders); err != nil {
		serviceError(w, r, "reorder_sprint_tasks", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SprintHandler) GetSprintDependencies(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	deps, err := h.SprintService.DependenciesForSprint(r.Context(), id)
	if err != nil {
		serviceError(w, r, "list_sprint_dependencies", err)
		return
	}

	responseWithList(w, http.StatusOK, "dependencies", deps)
}

// RecomputeSprint - ручной запуск пересчёта автозавершения
func (h *SprintHandler) RecomputeSprint(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.SprintService.RecomputeCompletion(r.Context(), id); err != nil {
		serviceError(w, r, "recompute_sprint", err)
		return
	}

	sprint, err := h.SprintService.GetSprintByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, "get_sprint", err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("sprint", sprint))
}
