package handlers

import (
	"net/http"
	"strconv"
	"time"

	"assetTracker/internal/handlers/dto"
	"assetTracker/internal/logger"
	"assetTracker/internal/middleware"

	"go.uber.org/zap"
)

type ProfileHandler struct {
	ProfileService      ProfileService
	NotificationService NotificationService
}

func NewProfileHandler(profileService ProfileService, notificationService NotificationService) ProfileHandler {
	return ProfileHandler{
		ProfileService:      profileService,
		NotificationService: notificationService,
	}
}

func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	profiles, err := h.ProfileService.ListProfiles(r.Context())
	if err != nil {
		serviceError(w, r, "list_profiles", err)
		return
	}

	responseWithList(w, http.StatusOK, "profiles", profiles)
}

func (h *ProfileHandler) PostProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateProfileRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	profile, err := h.ProfileService.CreateProfile(r.Context(), request.Email, request.DisplayName)
	if err != nil {
		serviceError(w, r, "create_profile", err)
		return
	}

	logger.Info("HTTP_OUT: Профиль создан",
		zap.String("profile_id", profile.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("profile", profile))
}

func (h *ProfileHandler) GetProfileByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.ProfileService.GetProfileByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, "get_profile", err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("profile", profile))
}

func (h *ProfileHandler) UpdateProfileByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.UpdateProfileRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	actor := middleware.GetActor(r.Context())
	profile, err := h.ProfileService.UpdateDisplayName(r.Context(), actor, id, request.DisplayName)
	if err != nil {
		serviceError(w, r, "update_profile", err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("profile", profile))
}

func (h *ProfileHandler) BlockProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.BlockProfileRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	actor := middleware.GetActor(r.Context())
	profile, err := h.ProfileService.BlockProfile(r.Context(), actor, id, request.Reason)
	if err != nil {
		serviceError(w, r, "block_profile", err)
		return
	}

	logger.Info("HTTP_OUT: Пользователь заблокирован",
		zap.String("profile_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("profile", profile))
}

func (h *ProfileHandler) UnblockProfile(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())
	profile, err := h.ProfileService.UnblockProfile(r.Context(), actor, id)
	if err != nil {
		serviceError(w, r, "unblock_profile", err)
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("profile", profile))
}

// ListNotifications - страница журнала активности, свежие первыми
func (h *ProfileHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			responseWithError(w, http.StatusBadRequest, "неверное значение page")
			return
		}
		page = parsed
	}

	notifications, err := h.NotificationService.ListNotifications(r.Context(), page)
	if err != nil {
		serviceError(w, r, "list_notifications", err)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("notifications", notifications),
		toPayload("page", page),
	)
}
