package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"assetTracker/internal/logger"
	"assetTracker/internal/models"
	repo "assetTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ранги статусов для прямых/обратных переходов
var statusRank = map[models.AssetStatus]int{
	models.StatusPending:     0,
	models.StatusInProgress:  1,
	models.StatusCompleted:   2,
	models.StatusImplemented: 3,
}

type AssetService struct {
	repo        AssetRepository
	events      EventRepository
	modelReqs   RequestRepository
	featureReqs RequestRepository
	notifier    Notifier
	sprints     SprintRecomputer
}

func NewAssetService(repo AssetRepository, events EventRepository,
	modelReqs, featureReqs RequestRepository, notifier Notifier) *AssetService {
	return &AssetService{
		repo:        repo,
		events:      events,
		modelReqs:   modelReqs,
		featureReqs: featureReqs,
		notifier:    notifier,
	}
}

// SetSprintRecomputer разрывает цикл AssetService <-> SprintService
func (s *AssetService) SetSprintRecomputer(r SprintRecomputer) {
	s.sprints = r
}

func (s *AssetService) CreateAsset(ctx context.Context, actor *models.Profile, name, blurb string,
	category *models.AssetCategory, priority *models.AssetPriority, dueDate *time.Time) (*models.Asset, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}
	if name == "" {
		return nil, NewValidationError("name", "пустое значение")
	}
	if category != nil && !category.Valid() {
		return nil, NewValidationError("category", string(*category))
	}
	if priority != nil && !priority.Valid() {
		return nil, NewValidationError("priority", string(*priority))
	}

	asset := &models.Asset{
		ID:        uuid.New(),
		Name:      name,
		Blurb:     blurb,
		Status:    models.StatusPending,
		Category:  category,
		Priority:  priority,
		DueDate:   dueDate,
		CreatedBy: &actor.ID,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	s.notifier.Notify(ctx, models.NotifyTaskCreated, asset.Name, actor)
	return asset, nil
}

func (s *AssetService) GetAssetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("задача", id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return asset, nil
}

func (s *AssetService) ListAssets(ctx context.Context, status *models.AssetStatus, category *models.AssetCategory) ([]*models.Asset, error) {
	assets, err := s.repo.List(ctx, status, category)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return assets, nil
}

func (s *AssetService) UpdateAsset(ctx context.Context, actor *models.Profile, id uuid.UUID, options ...AssetOption) (*models.Asset, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}

	asset, err := s.GetAssetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, opt := range options {
		if opt != nil {
			opt(asset)
		}
	}
	if asset.Name == "" {
		return nil, NewValidationError("name", "пустое значение")
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// ChangeStatus - переходы pending/in_progress/completed/implemented в обе
// стороны. Вход в in_progress принудительно ставит claim действующего
// пользователя (последний пишущий побеждает, без конфликта). Обратный
// переход стирает метки пропущенных состояний, claim не трогает.
func (s *AssetService) ChangeStatus(ctx context.Context, actor *models.Profile, id uuid.UUID, status models.AssetStatus) (*models.Asset, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}
	if !status.Valid() {
		return nil, NewValidationError("status", string(status))
	}

	asset, err := s.GetAssetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.Status == status {
		return asset, nil
	}

	now := time.Now()
	newRank := statusRank[status]

	// стираем метки всех состояний выше целевого
	if newRank < statusRank[models.StatusImplemented] {
		asset.ImplementedAt, asset.ImplementedBy = nil, nil
	}
	if newRank < statusRank[models.StatusCompleted] {
		asset.CompletedAt, asset.CompletedBy = nil, nil
	}
	if newRank < statusRank[models.StatusInProgress] {
		asset.InProgressAt, asset.InProgressBy = nil, nil
	}

	switch status {
	case models.StatusInProgress:
		asset.InProgressAt, asset.InProgressBy = &now, &actor.ID
		asset.ClaimedAt, asset.ClaimedBy = &now, &actor.ID
	case models.StatusCompleted:
		asset.CompletedAt, asset.CompletedBy = &now, &actor.ID
	case models.StatusImplemented:
		asset.ImplementedAt, asset.ImplementedBy = &now, &actor.ID
	}
	asset.Status = status

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}

	switch status {
	case models.StatusInProgress:
		s.notifier.Notify(ctx, models.NotifyTaskInProgress, asset.Name, actor)
	case models.StatusCompleted:
		s.notifier.Notify(ctx, models.NotifyTaskCompleted, asset.Name, actor)
	case models.StatusImplemented:
		s.notifier.Notify(ctx, models.NotifyTaskImplemented, asset.Name, actor)
	}

	// задача стала implemented - спринты, где она состоит, могли закрыться
	if status == models.StatusImplemented && s.sprints != nil {
		if err := s.sprints.RecomputeForAsset(ctx, asset.ID); err != nil {
			logger.Warn("Service: Ошибка пересчёта спринтов", zap.Error(err),
				zap.String("asset_id", asset.ID.String()))
		}
	}

	return asset, nil
}

// Claim доступен только для незанятой задачи
func (s *AssetService) Claim(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.Asset, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}

	asset, err := s.GetAssetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.ClaimedBy != nil && *asset.ClaimedBy != actor.ID {
		return nil, NewBusinessError("ALREADY_CLAIMED", "Задача уже занята",
			ToDetail("claimed_by", asset.ClaimedBy.String()))
	}

	now := time.Now()
	asset.ClaimedAt, asset.ClaimedBy = &now, &actor.ID

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, models.NotifyTaskClaimed, asset.Name, actor)
	return asset, nil
}

// Unclaim разрешён только текущему держателю claim
func (s *AssetService) Unclaim(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.Asset, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}

	asset, err := s.GetAssetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.ClaimedBy == nil {
		return nil, NewBusinessError("NOT_CLAIMED", "Задача никем не занята")
	}
	if *asset.ClaimedBy != actor.ID {
		return nil, NewForbidden("Снять claim может только держатель")
	}

	asset.ClaimedAt, asset.ClaimedBy = nil, nil

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, models.NotifyTaskUnclaimed, asset.Name, actor)
	return asset, nil
}

// DeleteAsset сначала обнуляет внешние ссылки (события, оба вида заявок),
// каждая отвязка best-effort: ошибка логируется, удаление продолжается
func (s *AssetService) DeleteAsset(ctx context.Context, actor *models.Profile, id uuid.UUID) error {
	if actor == nil {
		return NewNotAuthenticated()
	}

	if _, err := s.GetAssetByID(ctx, id); err != nil {
		return err
	}

	if _, err := s.events.UnlinkAsset(ctx, id); err != nil {
		logger.Warn("Service: Не удалось отвязать задачу от событий", zap.Error(err),
			zap.String("asset_id", id.String()))
	}
	if _, err := s.modelReqs.UnlinkAsset(ctx, id); err != nil {
		logger.Warn("Service: Не удалось отвязать задачу от model requests", zap.Error(err),
			zap.String("asset_id", id.String()))
	}
	if _, err := s.featureReqs.UnlinkAsset(ctx, id); err != nil {
		logger.Warn("Service: Не удалось отвязать задачу от feature requests", zap.Error(err),
			zap.String("asset_id", id.String()))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("задача", id.String())
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}
