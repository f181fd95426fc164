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

// RequestService обслуживает model requests и feature requests - форма
// одна, различаются таблицей, категорией создаваемой задачи и типами
// уведомлений
type RequestService struct {
	kind     models.RequestKind
	repo     RequestRepository
	assets   AssetRepository
	notifier Notifier
}

func NewRequestService(kind models.RequestKind, repo RequestRepository,
	assets AssetRepository, notifier Notifier) *RequestService {
	return &RequestService{
		kind:     kind,
		repo:     repo,
		assets:   assets,
		notifier: notifier,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, actor *models.Profile,
	name, description string, priority *models.AssetPriority) (*models.Request, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}
	if name == "" {
		return nil, NewValidationError("name", "пустое значение")
	}
	if priority != nil && !priority.Valid() {
		return nil, NewValidationError("priority", string(*priority))
	}

	request := &models.Request{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Priority:    priority,
		Status:      models.RequestOpen,
		CreatedBy:   &actor.ID,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("создание заявки: %w", err)
	}

	s.notifier.Notify(ctx, s.notifyType("created"), request.Name, actor)
	return request, nil
}

func (s *RequestService) GetRequestByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Заявка не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound("заявка", id.String())
		}
		return nil, fmt.Errorf("получение заявки: %w", err)
	}
	return request, nil
}

func (s *RequestService) ListRequests(ctx context.Context, status *models.RequestStatus) ([]*models.Request, error) {
	requests, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("получение заявок: %w", err)
	}
	return requests, nil
}

// AcceptRequest создаёт задачу из заявки и связывает их. Для model
// request задача получает категорию design, для feature request -
// без категории. Терминальный переход, обратного пути нет.
func (s *RequestService) AcceptRequest(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.Request, *models.Asset, error) {
	if actor == nil {
		return nil, nil, NewNotAuthenticated()
	}

	request, err := s.GetRequestByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if request.Status != models.RequestOpen {
		return nil, nil, NewBusinessError("ALREADY_RESOLVED",
			"Заявка уже рассмотрена", ToDetail("status", string(request.Status)))
	}

	asset := &models.Asset{
		ID:        uuid.New(),
		Name:      request.Name,
		Blurb:     request.Description,
		Status:    models.StatusPending,
		Priority:  request.Priority,
		CreatedBy: &actor.ID,
	}
	if s.kind == models.ModelRequestKind {
		category := models.CategoryDesign
		asset.Category = &category
	}

	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, nil, fmt.Errorf("создание задачи из заявки: %w", err)
	}

	now := time.Now()
	request.Status = models.RequestAccepted
	request.AcceptedBy = &actor.ID
	request.AcceptedAt = &now
	request.LinkedAssetID = &asset.ID

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, nil, err
	}

	s.notifier.Notify(ctx, s.notifyType("accepted"), request.Name, actor)
	return request, asset, nil
}

// DenyRequest требует непустую причину; проверка до любого обращения
// к хранилищу
func (s *RequestService) DenyRequest(ctx context.Context, actor *models.Profile, id uuid.UUID, reason string) (*models.Request, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, NewValidationError("reason", "причина отказа обязательна")
	}

	request, err := s.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestOpen {
		return nil, NewBusinessError("ALREADY_RESOLVED",
			"Заявка уже рассмотрена", ToDetail("status", string(request.Status)))
	}

	now := time.Now()
	request.Status = models.RequestDenied
	request.DeniedBy = &actor.ID
	request.DeniedAt = &now
	request.DenialReason = &reason

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, s.notifyType("denied"), request.Name, actor)
	return request, nil
}

func (s *RequestService) DeleteRequest(ctx context.Context, actor *models.Profile, id uuid.UUID) error {
	if actor == nil {
		return NewNotAuthenticated()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("заявка", id.String())
		}
		return fmt.Errorf("удаление заявки: %w", err)
	}
	return nil
}

func (s *RequestService) notifyType(suffix string) models.NotificationType {
	if s.kind == models.FeatureRequestKind {
		return models.NotificationType("feature_request_" + suffix)
	}
	return models.NotificationType("model_request_" + suffix)
}
