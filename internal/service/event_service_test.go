package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"assetTracker/internal/models"
	"assetTracker/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// SpyAssetDeleter записывает id удалённых задач
type SpyAssetDeleter struct {
	mu    sync.Mutex
	calls []uuid.UUID
	err   error
}

func (d *SpyAssetDeleter) DeleteAsset(ctx context.Context, actor *models.Profile, id uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, id)
	return d.err
}

func (d *SpyAssetDeleter) Calls() []uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]uuid.UUID, len(d.calls))
	copy(out, d.calls)
	return out
}

var _ service.AssetDeleter = (*SpyAssetDeleter)(nil)

// TestEventService_CreateEvent_AutoCreateTask тестирует автосоздание
// парной задачи: только для deliverable с включённым флагом и без
// уже связанной задачи
func TestEventService_CreateEvent_AutoCreateTask(t *testing.T) {
	ctx := context.Background()
	actor := testProfile("alice")
	linked := uuid.New()

	tests := []struct {
		name         string
		params       service.CreateEventParams
		expectPaired bool
	}{
		{
			name: "deliverable with auto_create_task",
			params: service.CreateEventParams{
				Type:           models.EventDeliverable,
				Title:          "Release 1.0",
				EventDate:      time.Now().AddDate(0, 0, 14),
				AutoCreateTask: true,
			},
			expectPaired: true,
		},
		{
			name: "milestone with auto_create_task - no paired task",
			params: service.CreateEventParams{
				Type:           models.EventMilestone,
				Title:          "Kickoff",
				EventDate:      time.Now(),
				AutoCreateTask: true,
			},
			expectPaired: false,
		},
		{
			name: "deliverable without flag",
			params: service.CreateEventParams{
				Type:      models.EventDeliverable,
				Title:     "Release 1.0",
				EventDate: time.Now(),
			},
			expectPaired: false,
		},
		{
			name: "deliverable already linked",
			params: service.CreateEventParams{
				Type:           models.EventDeliverable,
				Title:          "Release 1.0",
				EventDate:      time.Now(),
				LinkedAssetID:  &linked,
				AutoCreateTask: true,
			},
			expectPaired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := new(MockEventRepository)
			eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

			assetRepo := new(MockAssetRepository)
			if tt.expectPaired {
				assetRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Asset) bool {
					return a.Name == tt.params.Title && a.Status == models.StatusPending
				})).Return(nil)
			}

			notifier := new(SpyNotifier)
			svc := service.NewEventService(eventRepo, assetRepo, new(SpyAssetDeleter), notifier)

			event, err := svc.CreateEvent(ctx, actor, tt.params)

			require.NoError(t, err)
			if tt.expectPaired {
				require.NotNil(t, event.LinkedAssetID)
			} else if tt.params.LinkedAssetID == nil {
				assert.Nil(t, event.LinkedAssetID)
				assetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
			eventRepo.AssertExpectations(t)
			assetRepo.AssertExpectations(t)
		})
	}
}

// TestEventService_UpdateEvent_EnableAutoCreate тестирует включение
// auto_create_task на существующем deliverable
func TestEventService_UpdateEvent_EnableAutoCreate(t *testing.T) {
	ctx := context.Background()
	actor := testProfile("alice")
	eventID := uuid.New()
	enable := true

	eventRepo := new(MockEventRepository)
	eventRepo.On("GetByID", mock.Anything, eventID).Return(&models.Event{
		ID:        eventID,
		Type:      models.EventDeliverable,
		Title:     "Release 1.0",
		EventDate: time.Now().AddDate(0, 0, 7),
	}, nil)
	eventRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Event) bool {
		return e.AutoCreateTask && e.LinkedAssetID != nil
	})).Return(nil)

	assetRepo := new(MockAssetRepository)
	assetRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	notifier := new(SpyNotifier)
	svc := service.NewEventService(eventRepo, assetRepo, new(SpyAssetDeleter), notifier)

	event, err := svc.UpdateEvent(ctx, actor, eventID, service.UpdateEventParams{
		AutoCreateTask: &enable,
	})

	require.NoError(t, err)
	require.NotNil(t, event.LinkedAssetID)
	require.Len(t, notifier.Calls(), 1)
	assert.Equal(t, models.NotifyScheduleUpdated, notifier.Calls()[0].Type)
	eventRepo.AssertExpectations(t)
	assetRepo.AssertExpectations(t)
}

// TestEventService_CreateTaskFromDeliverable тестирует явное создание
// задачи из события
func TestEventService_CreateTaskFromDeliverable(t *testing.T) {
	ctx := context.Background()
	actor := testProfile("alice")
	eventID := uuid.New()
	category := models.CategoryDesign

	t.Run("success", func(t *testing.T) {
		eventRepo := new(MockEventRepository)
		eventRepo.On("GetByID", mock.Anything, eventID).Return(&models.Event{
			ID:        eventID,
			Type:      models.EventDeliverable,
			Title:     "Release 1.0",
			EventDate: time.Now(),
		}, nil)
		eventRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Event) bool {
			return e.LinkedAssetID != nil
		})).Return(nil)

		assetRepo := new(MockAssetRepository)
		assetRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		notifier := new(SpyNotifier)
		svc := service.NewEventService(eventRepo, assetRepo, new(SpyAssetDeleter), notifier)

		asset, err := svc.CreateTaskFromDeliverable(ctx, actor, eventID, &category, nil)

		require.NoError(t, err)
		assert.Equal(t, "Release 1.0", asset.Name)
		assert.Equal(t, models.StatusPending, asset.Status)
		require.Len(t, notifier.Calls(), 1)
		assert.Equal(t, models.NotifyTaskCreated, notifier.Calls()[0].Type)
		eventRepo.AssertExpectations(t)
	})

	t.Run("error - not a deliverable", func(t *testing.T) {
		eventRepo := new(MockEventRepository)
		eventRepo.On("GetByID", mock.Anything, eventID).Return(&models.Event{
			ID:        eventID,
			Type:      models.EventMilestone,
			Title:     "Kickoff",
			EventDate: time.Now(),
		}, nil)

		assetRepo := new(MockAssetRepository)
		svc := service.NewEventService(eventRepo, assetRepo, new(SpyAssetDeleter), new(SpyNotifier))

		_, err := svc.CreateTaskFromDeliverable(ctx, actor, eventID, nil, nil)

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, "NOT_DELIVERABLE", busErr.Code)
		assetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

// TestEventService_DeleteEventWithLinkedTask тестирует каскадное
// удаление: ошибка удаления задачи не роняет операцию
func TestEventService_DeleteEventWithLinkedTask(t *testing.T) {
	ctx := context.Background()
	actor := testProfile("alice")
	eventID := uuid.New()
	assetID := uuid.New()

	t.Run("deletes linked task", func(t *testing.T) {
		eventRepo := new(MockEventRepository)
		eventRepo.On("GetByID", mock.Anything, eventID).Return(&models.Event{
			ID:            eventID,
			Type:          models.EventDeliverable,
			Title:         "Release 1.0",
			EventDate:     time.Now(),
			LinkedAssetID: &assetID,
		}, nil)
		eventRepo.On("Delete", mock.Anything, eventID).Return(nil)

		deleter := new(SpyAssetDeleter)
		svc := service.NewEventService(eventRepo, new(MockAssetRepository), deleter, new(SpyNotifier))

		err := svc.DeleteEventWithLinkedTask(ctx, actor, eventID)

		require.NoError(t, err)
		require.Len(t, deleter.Calls(), 1)
		assert.Equal(t, assetID, deleter.Calls()[0])
	})

	t.Run("task deletion failure is best-effort", func(t *testing.T) {
		eventRepo := new(MockEventRepository)
		eventRepo.On("GetByID", mock.Anything, eventID).Return(&models.Event{
			ID:            eventID,
			Type:          models.EventDeliverable,
			Title:         "Release 1.0",
			EventDate:     time.Now(),
			LinkedAssetID: &assetID,
		}, nil)
		eventRepo.On("Delete", mock.Anything, eventID).Return(nil)

		deleter := &SpyAssetDeleter{err: errors.New("db down")}
		svc := service.NewEventService(eventRepo, new(MockAssetRepository), deleter, new(SpyNotifier))

		err := svc.DeleteEventWithLinkedTask(ctx, actor, eventID)

		require.NoError(t, err)
	})
}
