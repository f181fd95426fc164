package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"assetTracker/internal/logger"
	"assetTracker/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const actorKey contextKey = "actor"

// ProfileLookup отдаёт профиль по id для аутентификации
type ProfileLookup interface {
	GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// Auth читает X-User-ID, подгружает профиль и кладёт его в контекст.
// Без заголовка запрос идёт дальше анонимно: чтение открыто, мутации
// сами отвечают 401. Заблокированный пользователь получает 403 сразу.
func Auth(profiles ProfileLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("X-User-ID")
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := uuid.Parse(raw)
			if err != nil {
				logger.Warn("HTTP: Неверный X-User-ID",
					zap.Error(err),
					zap.String("client_ip", r.RemoteAddr))
				authError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Not authenticated")
				return
			}

			profile, err := profiles.GetProfileByID(r.Context(), userID)
			if err != nil {
				logger.Warn("HTTP: Профиль из X-User-ID не найден",
					zap.String("user_id", raw),
					zap.String("client_ip", r.RemoteAddr))
				authError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Not authenticated")
				return
			}

			if profile.IsBlocked {
				logger.Warn("HTTP: Запрос заблокированного пользователя",
					zap.String("user_id", raw),
					zap.String("client_ip", r.RemoteAddr))
				authError(w, http.StatusForbidden, "USER_BLOCKED", "Пользователь заблокирован")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), profile)))
		})
	}
}

// WithActor кладёт действующего пользователя в контекст
func WithActor(ctx context.Context, profile *models.Profile) context.Context {
	return context.WithValue(ctx, actorKey, profile)
}

// GetActor возвращает действующего пользователя или nil для анонимного
// запроса
func GetActor(ctx context.Context) *models.Profile {
	if p, ok := ctx.Value(actorKey).(*models.Profile); ok {
		return p
	}
	return nil
}

func authError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"error":   errCode,
		"message": message,
	})
}
