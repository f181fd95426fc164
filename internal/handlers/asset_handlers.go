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

type AssetHandler struct {
	AssetService  AssetService
	SprintService SprintService
}

func NewAssetHandler(assetService AssetService, sprintService SprintService) AssetHandler {
	return AssetHandler{
		AssetService:  assetService,
		SprintService: sprintService,
	}
}

func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var status *models.AssetStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.AssetStatus(raw)
		if !s.Valid() {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "status"),
				zap.String("value", raw),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "неверное значение status")
			return
		}
		status = &s
	}

	var category *models.AssetCategory
	if raw := r.URL.Query().Get("category"); raw != "" {
		c := models.AssetCategory(raw)
		if !c.Valid() {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "category"),
				zap.String("value", raw),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "неверное значение category")
			return
		}
		category = &c
	}

	assets, err := h.AssetService.ListAssets(r.Context(), status, category)
	if err != nil {
		serviceError(w, r, "list_assets", err)
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(assets)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithList(w, http.StatusOK, "assets", assets)
}

func (h *AssetHandler) PostAsset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateAssetRequest
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
	asset, err := h.AssetService.CreateAsset(r.Context(), actor,
		request.Name, request.Blurb, request.Category, request.Priority, request.DueDate)
	if err != nil {
		serviceError(w, r, "create_asset", err)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("asset_id", asset.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("asset", asset))
}

func (h *AssetHandler) GetAssetByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	asset, err := h.AssetService.GetAssetByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, "get_asset", err)
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("asset_id", asset.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("asset", asset))
}

func (h *AssetHandler) UpdateAssetByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.UpdateAssetRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	options := make([]service.AssetOption, 0, 5)
	if request.Name != nil {
		options = append(options, service.WithName(*request.Name))
	}
	if request.Blurb != nil {
		options = append(options, service.WithBlurb(*request.Blurb))
	}
	if request.Category != nil {
		options = append(options, service.WithCategory(request.Category))
	}
	if request.Priority != nil {
		options = append(options, service.WithPriority(request.Priority))
	}
	if request.DueDate != nil {
		options = append(options, service.WithDueDate(request.DueDate))
	}

	actor := middleware.GetActor(r.Context())
	asset, err := h.AssetService.UpdateAsset(r.Context(), actor, id, options...)
	if err != nil {
		serviceError(w, r, "update_asset", err)
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("asset_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("asset", asset))
}

func (h *AssetHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.ChangeStatusRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	actor := middleware.GetActor(r.Context())
	asset, err := h.AssetService.ChangeStatus(r.Context(), actor, id, request.Status)
	if err != nil {
		serviceError(w, r, "change_status", err)
		return
	}

	logger.Info("HTTP_OUT: Статус задачи изменён",
		zap.String("asset_id", id.String()),
		zap.String("status", string(asset.Status)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("asset", asset))
}

func (h *AssetHandler) ClaimAsset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())
	asset, err := h.AssetService.Claim(r.Context(), actor, id)
	if err != nil {
		serviceError(w, r, "claim_asset", err)
		return
	}

	logger.Info("HTTP_OUT: Задача закреплена",
		zap.String("asset_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("asset", asset))
}

func (h *AssetHandler) UnclaimAsset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())
	asset, err := h.AssetService.Unclaim(r.Context(), actor, id)
	if err != nil {
		serviceError(w, r, "unclaim_asset", err)
		return
	}

	logger.Info("HTTP_OUT: Задача освобождена",
		zap.String("asset_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("asset", asset))
}

func (h *AssetHandler) DeleteAssetByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.AssetService.DeleteAsset(r.Context(), actor, id); err != nil {
		serviceError(w, r, "delete_asset", err)
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("asset_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

// GetCanStart - совещательная проверка зависимостей перед взятием в
// работу
func (h *AssetHandler) GetCanStart(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	canStart, unmet, err := h.SprintService.CanStart(r.Context(), id)
	if err != nil {
		serviceError(w, r, "can_start", err)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("can_start", canStart),
		toPayload("unmet_dependencies", unmet),
	)
}

func (h *AssetHandler) GetDependencies(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	deps, err := h.SprintService.DependenciesOf(r.Context(), id)
	if err != nil {
		serviceError(w, r, "list_dependencies", err)
		return
	}

	dependents, err := h.SprintService.DependentsOf(r.Context(), id)
	if err != nil {
		serviceError(w, r, "list_dependents", err)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("dependencies", deps),
		toPayload("dependents", dependents),
	)
}

func (h *AssetHandler) PostDependency(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.AddDependencyRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	actor := middleware.GetActor(r.Context())
	dep, err := h.SprintService.AddDependency(r.Context(), actor, id, request.DependencyTaskID, request.SprintID)
	if err != nil {
		serviceError(w, r, "add_dependency", err)
		return
	}

	logger.Info("HTTP_OUT: Зависимость добавлена",
		zap.String("asset_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("dependency", dep))
}

func (h *AssetHandler) DeleteDependency(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	depID, ok := parseID(w, r, "depId")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.SprintService.RemoveDependency(r.Context(), actor, id, depID); err != nil {
		serviceError(w, r, "remove_dependency", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AssetHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	healthCheck(w)
}
