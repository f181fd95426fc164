package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"assetTracker/internal/logger"
	"assetTracker/internal/models"
	repo "assetTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileService struct {
	repo   ProfileRepository
	assets AssetRepository
}

func NewProfileService(repo ProfileRepository, assets AssetRepository) *ProfileService {
	return &ProfileService{
		repo:   repo,
		assets: assets,
	}
}

func (s *ProfileService) CreateProfile(ctx context.Context, email string, displayName *string) (*models.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, NewValidationError("email", "пустое значение")
	}

	profile := &models.Profile{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: displayName,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, NewBusinessError("EMAIL_TAKEN", "Пользователь с таким email уже существует")
		}
		return nil, fmt.Errorf("создание профиля: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("профиль", id.String())
		}
		return nil, fmt.Errorf("получение профиля: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	return s.repo.List(ctx)
}

func (s *ProfileService) UpdateDisplayName(ctx context.Context, actor *models.Profile, id uuid.UUID, displayName *string) (*models.Profile, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}
	if actor.ID != id {
		return nil, NewForbidden("менять можно только свой профиль")
	}

	profile, err := s.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile.DisplayName = displayName
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("обновление профиля: %w", err)
	}
	return profile, nil
}

// BlockProfile блокирует пользователя. Перед блокировкой best-effort
// снимаем все его claim'ы: ошибка снятия логируется, блокировку не
// останавливает.
func (s *ProfileService) BlockProfile(ctx context.Context, actor *models.Profile, id uuid.UUID, reason *string) (*models.Profile, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}
	if actor.ID == id {
		return nil, NewBusinessError("SELF_BLOCK", "Нельзя заблокировать самого себя")
	}

	profile, err := s.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if n, err := s.assets.UnclaimAllBy(ctx, id); err != nil {
		logger.Warn("Service: Ошибка снятия claim при блокировке", zap.Error(err),
			zap.String("user_id", id.String()))
	} else if n > 0 {
		logger.Info("Service: Сняты claim заблокированного пользователя",
			zap.String("user_id", id.String()), zap.Int64("count", n))
	}

	now := time.Now()
	profile.IsBlocked = true
	profile.BlockedAt = &now
	profile.BlockedReason = reason
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("блокировка профиля: %w", err)
	}

	logger.Info("Service: Пользователь заблокирован",
		zap.String("user_id", id.String()),
		zap.String("blocked_by", actor.ID.String()))
	return profile, nil
}

func (s *ProfileService) UnblockProfile(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.Profile, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}

	profile, err := s.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile.IsBlocked = false
	profile.BlockedAt = nil
	profile.BlockedReason = nil
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("разблокировка профиля: %w", err)
	}

	logger.Info("Service: Пользователь разблокирован", zap.String("user_id", id.String()))
	return profile, nil
}
