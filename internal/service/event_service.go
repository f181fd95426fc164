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

// AssetDeleter - удаление задачи вместе с отвязкой внешних ссылок
// (реализует AssetService)
type AssetDeleter interface {
	DeleteAsset(ctx context.Context, actor *models.Profile, id uuid.UUID) error
}

type EventService struct {
	repo         EventRepository
	assets       AssetRepository
	assetDeleter AssetDeleter
	notifier     Notifier
}

func NewEventService(repo EventRepository, assets AssetRepository,
	assetDeleter AssetDeleter, notifier Notifier) *EventService {
	return &EventService{
		repo:         repo,
		assets:       assets,
		assetDeleter: assetDeleter,
		notifier:     notifier,
	}
}

type CreateEventParams struct {
	Type           models.EventType
	Title          string
	Description    *string
	EventDate      time.Time
	EventTime      *string
	Visibility     *models.EventVisibility
	LinkedAssetID  *uuid.UUID
	AutoCreateTask bool
}

type UpdateEventParams struct {
	Type           *models.EventType
	Title          *string
	Description    *string
	EventDate      *time.Time
	EventTime      *string
	Visibility     *models.EventVisibility
	LinkedAssetID  *uuid.UUID
	AutoCreateTask *bool
}

func (s *EventService) CreateEvent(ctx context.Context, actor *models.Profile, params CreateEventParams) (*models.Event, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}
	if !params.Type.Valid() {
		return nil, NewValidationError("type", string(params.Type))
	}
	if params.Title == "" {
		return nil, NewValidationError("title", "пустое значение")
	}
	if params.EventDate.IsZero() {
		return nil, NewValidationError("event_date", "пустое значение")
	}

	linkedAssetID := params.LinkedAssetID

	// deliverable с auto_create_task получает парную задачу
	if params.AutoCreateTask && params.Type == models.EventDeliverable && linkedAssetID == nil {
		asset, err := s.createPairedTask(ctx, actor, params.Title, params.Description, params.EventDate)
		if err != nil {
			return nil, err
		}
		linkedAssetID = &asset.ID
	}

	event := &models.Event{
		ID:             uuid.New(),
		Type:           params.Type,
		Title:          params.Title,
		Description:    params.Description,
		EventDate:      params.EventDate,
		EventTime:      params.EventTime,
		Visibility:     params.Visibility,
		LinkedAssetID:  linkedAssetID,
		AutoCreateTask: params.AutoCreateTask,
		CreatedBy:      &actor.ID,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("создание события: %w", err)
	}

	s.notifier.Notify(ctx, models.NotifyScheduleCreated, event.Title, actor)
	return event, nil
}

func (s *EventService) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Событие не найдено", zap.String("target_id", id.String()))
			return nil, NewNotFound("событие", id.String())
		}
		return nil, fmt.Errorf("получение события: %w", err)
	}
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	events, err := s.repo.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("получение событий: %w", err)
	}
	return events, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, actor *models.Profile, id uuid.UUID, params UpdateEventParams) (*models.Event, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}

	event, err := s.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Type != nil {
		if !params.Type.Valid() {
			return nil, NewValidationError("type", string(*params.Type))
		}
		event.Type = *params.Type
	}
	if params.Title != nil {
		if *params.Title == "" {
			return nil, NewValidationError("title", "пустое значение")
		}
		event.Title = *params.Title
	}
	if params.Description != nil {
		event.Description = params.Description
	}
	if params.EventDate != nil {
		event.EventDate = *params.EventDate
	}
	if params.EventTime != nil {
		event.EventTime = params.EventTime
	}
	if params.Visibility != nil {
		event.Visibility = params.Visibility
	}
	if params.LinkedAssetID != nil {
		event.LinkedAssetID = params.LinkedAssetID
	}
	if params.AutoCreateTask != nil {
		event.AutoCreateTask = *params.AutoCreateTask
	}

	// включение auto_create_task на deliverable без связанной задачи
	// создаёт её и здесь
	if event.AutoCreateTask && event.Type == models.EventDeliverable && event.LinkedAssetID == nil {
		asset, err := s.createPairedTask(ctx, actor, event.Title, event.Description, event.EventDate)
		if err != nil {
			return nil, err
		}
		event.LinkedAssetID = &asset.ID
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, models.NotifyScheduleUpdated, event.Title, actor)
	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, actor *models.Profile, id uuid.UUID) error {
	if actor == nil {
		return NewNotAuthenticated()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("событие", id.String())
		}
		return fmt.Errorf("удаление события: %w", err)
	}
	return nil
}

// DeleteEventWithLinkedTask - явная операция "удалить вместе с задачей",
// отличная от обычного удаления. Ошибка удаления задачи best-effort.
func (s *EventService) DeleteEventWithLinkedTask(ctx context.Context, actor *models.Profile, id uuid.UUID) error {
	if actor == nil {
		return NewNotAuthenticated()
	}

	event, err := s.GetEventByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("удаление события: %w", err)
	}

	if event.LinkedAssetID != nil {
		if err := s.assetDeleter.DeleteAsset(ctx, actor, *event.LinkedAssetID); err != nil {
			logger.Warn("Service: Не удалось удалить связанную задачу", zap.Error(err),
				zap.String("asset_id", event.LinkedAssetID.String()))
		}
	}
	return nil
}

// CreateTaskFromDeliverable создаёт задачу из deliverable-события
// по явному запросу и связывает их
func (s *EventService) CreateTaskFromDeliverable(ctx context.Context, actor *models.Profile, eventID uuid.UUID,
	category *models.AssetCategory, priority *models.AssetPriority) (*models.Asset, error) {
	if actor == nil {
		return nil, NewNotAuthenticated()
	}

	event, err := s.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Type != models.EventDeliverable {
		return nil, NewBusinessError("NOT_DELIVERABLE",
			"Задачу можно создать только из deliverable-события")
	}

	blurb := deliverableBlurb(event.Description, event.EventDate)
	asset := &models.Asset{
		ID:        uuid.New(),
		Name:      event.Title,
		Blurb:     blurb,
		Status:    models.StatusPending,
		Category:  category,
		Priority:  priority,
		CreatedBy: &actor.ID,
	}

	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("создание задачи из события: %w", err)
	}

	event.LinkedAssetID = &asset.ID
	if err := s.repo.Update(ctx, event); err != nil {
		logger.Warn("Service: Не удалось связать событие с задачей", zap.Error(err),
			zap.String("event_id", event.ID.String()))
	}

	s.notifier.Notify(ctx, models.NotifyTaskCreated, asset.Name, actor)
	return asset, nil
}

func (s *EventService) createPairedTask(ctx context.Context, actor *models.Profile,
	title string, description *string, date time.Time) (*models.Asset, error) {
	asset := &models.Asset{
		ID:        uuid.New(),
		Name:      title,
		Blurb:     deliverableBlurb(description, date),
		Status:    models.StatusPending,
		CreatedBy: &actor.ID,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("создание парной задачи: %w", err)
	}
	return asset, nil
}

func deliverableBlurb(description *string, date time.Time) string {
	if description != nil && *description != "" {
		return *description
	}
	return fmt.Sprintf("Deliverable due: %s", date.Format("2006-01-02"))
}
