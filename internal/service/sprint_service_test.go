package service_test

import (
	"context"
	"testing"

	"assetTracker/internal/models"
	"assetTracker/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sprintLinks(sprintID uuid.UUID, assetIDs ...uuid.UUID) []*models.SprintTask {
	links := make([]*models.SprintTask, 0, len(assetIDs))
	for i, id := range assetIDs {
		links = append(links, &models.SprintTask{
			SprintID:   sprintID,
			AssetID:    id,
			OrderIndex: i,
		})
	}
	return links
}

func assetsWithStatus(status models.AssetStatus, ids ...uuid.UUID) []*models.Asset {
	out := make([]*models.Asset, 0, len(ids))
	for _, id := range ids {
		out = append(out, &models.Asset{ID: id, Name: "task", Status: status})
	}
	return out
}

// TestSprintService_RecomputeCompletion тестирует автозавершение: спринт
// закрывается только при непустом множестве задач, целиком implemented
func TestSprintService_RecomputeCompletion(t *testing.T) {
	ctx := context.Background()
	sprintID := uuid.New()
	taskA := uuid.New()
	taskB := uuid.New()

	tests := []struct {
		name           string
		links          []*models.SprintTask
		assets         []*models.Asset
		expectComplete bool
	}{
		{
			name:           "all implemented - completes",
			links:          sprintLinks(sprintID, taskA, taskB),
			assets:         assetsWithStatus(models.StatusImplemented, taskA, taskB),
			expectComplete: true,
		},
		{
			name:  "one completed but not implemented - stays active",
			links: sprintLinks(sprintID, taskA, taskB),
			assets: []*models.Asset{
				{ID: taskA, Status: models.StatusImplemented},
				{ID: taskB, Status: models.StatusCompleted},
			},
			expectComplete: false,
		},
		{
			name:           "empty sprint - never completes",
			links:          []*models.SprintTask{},
			assets:         nil,
			expectComplete: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sprintRepo := new(MockSprintRepository)
			sprintRepo.On("ListTasks", mock.Anything, sprintID).Return(tt.links, nil)

			assetRepo := new(MockAssetRepository)
			if len(tt.links) > 0 {
				assetRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(tt.assets, nil)
			}
			if tt.expectComplete {
				sprintRepo.On("CompleteIfActive", mock.Anything, sprintID, mock.Anything).Return(true, nil)
			}

			svc := service.NewSprintService(sprintRepo, assetRepo)
			err := svc.RecomputeCompletion(ctx, sprintID)

			require.NoError(t, err)
			if !tt.expectComplete {
				sprintRepo.AssertNotCalled(t, "CompleteIfActive", mock.Anything, mock.Anything, mock.Anything)
			}
			sprintRepo.AssertExpectations(t)
			assetRepo.AssertExpectations(t)
		})
	}
}

// TestSprintService_RecomputeForAsset тестирует пересчёт всех спринтов
// задачи
func TestSprintService_RecomputeForAsset(t *testing.T) {
	ctx := context.Background()
	assetID := uuid.New()
	sprintA := uuid.New()
	sprintB := uuid.New()

	sprintRepo := new(MockSprintRepository)
	sprintRepo.On("SprintsForAsset", mock.Anything, assetID).Return([]uuid.UUID{sprintA, sprintB}, nil)
	sprintRepo.On("ListTasks", mock.Anything, sprintA).Return(sprintLinks(sprintA, assetID), nil)
	sprintRepo.On("ListTasks", mock.Anything, sprintB).Return(sprintLinks(sprintB, assetID), nil)
	sprintRepo.On("CompleteIfActive", mock.Anything, sprintA, mock.Anything).Return(true, nil)
	sprintRepo.On("CompleteIfActive", mock.Anything, sprintB, mock.Anything).Return(false, nil)

	assetRepo := new(MockAssetRepository)
	assetRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(assetsWithStatus(models.StatusImplemented, assetID), nil)

	svc := service.NewSprintService(sprintRepo, assetRepo)
	err := svc.RecomputeForAsset(ctx, assetID)

	require.NoError(t, err)
	sprintRepo.AssertExpectations(t)
}

// TestSprintService_AddTask тестирует добавление задачи в спринт:
// без явного индекса задача встаёт в конец, после добавления - пересчёт
func TestSprintService_AddTask(t *testing.T) {
	ctx := context.Background()
	actor := testProfile("alice")
	sprintID := uuid.New()
	assetID := uuid.New()

	sprintRepo := new(MockSprintRepository)
	sprintRepo.On("GetByID", mock.Anything, sprintID).Return(&models.Sprint{
		ID:     sprintID,
		Name:   "Sprint 1",
		Status: models.SprintActive,
	}, nil)
	sprintRepo.On("MaxOrderIndex", mock.Anything, sprintID).Return(2, nil)
	sprintRepo.On("AddTask", mock.Anything, mock.MatchedBy(func(st *models.SprintTask) bool {
		return st.OrderIndex == 3 && st.AssetID == assetID
	})).Return(nil)
	// пересчёт после добавления
	sprintRepo.On("ListTasks", mock.Anything, sprintID).Return(sprintLinks(sprintID, assetID), nil)

	assetRepo := new(MockAssetRepository)
	assetRepo.On("GetByID", mock.Anything, assetID).Return(&models.Asset{
		ID:     assetID,
		Status: models.StatusPending,
	}, nil)
	assetRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(assetsWithStatus(models.StatusPending, assetID), nil)

	svc := service.NewSprintService(sprintRepo, assetRepo)
	link, err := svc.AddTask(ctx, actor, sprintID, assetID, -1)

	require.NoError(t, err)
	assert.Equal(t, 3, link.OrderIndex)
	sprintRepo.AssertExpectations(t)
	assetRepo.AssertExpectations(t)
}

// TestSprintService_RemoveTask тестирует удаление с последующим
// пересчётом: спринт может закрыться, когда убрали последнюю
// незавершённую задачу
func TestSprintService_RemoveTask(t *testing.T) {
	ctx := context.Background()
	actor := testProfile("alice")
	sprintID := uuid.New()
	removed := uuid.New()
	remaining := uuid.New()

	sprintRepo := new(MockSprintRepository)
	sprintRepo.On("RemoveTask", mock.Anything, sprintID, removed).Return(nil)
	sprintRepo.On("ListTasks", mock.Anything, sprintID).Return(sprintLinks(sprintID, remaining), nil)
	sprintRepo.On("CompleteIfActive", mock.Anything, sprintID, mock.Anything).Return(true, nil)

	assetRepo := new(MockAssetRepository)
	assetRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(assetsWithStatus(models.StatusImplemented, remaining), nil)

	svc := service.NewSprintService(sprintRepo, assetRepo)
	err := svc.RemoveTask(ctx, actor, sprintID, removed)

	require.NoError(t, err)
	sprintRepo.AssertExpectations(t)
}

// TestSprintService_AddDependency тестирует объявление зависимости
func TestSprintService_AddDependency(t *testing.T) {
	ctx := context.Background()
	actor := testProfile("alice")
	taskA := uuid.New()
	taskB := uuid.New()

	t.Run("success", func(t *testing.T) {
		sprintRepo := new(MockSprintRepository)
		sprintRepo.On("AddDependency", mock.Anything, mock.MatchedBy(func(d *models.TaskDependency) bool {
			return d.DependentTaskID == taskA && d.DependencyTaskID == taskB
		})).Return(nil)

		svc := service.NewSprintService(sprintRepo, new(MockAssetRepository))
		dep, err := svc.AddDependency(ctx, actor, taskA, taskB, nil)

		require.NoError(t, err)
		assert.Equal(t, taskA, dep.DependentTaskID)
		sprintRepo.AssertExpectations(t)
	})

	t.Run("error - self dependency", func(t *testing.T) {
		svc := service.NewSprintService(new(MockSprintRepository), new(MockAssetRepository))
		_, err := svc.AddDependency(ctx, actor, taskA, taskA, nil)

		var busErr *service.BusinessError
		require.ErrorAs(t, err, &busErr)
		assert.Equal(t, "VALIDATION_ERROR", busErr.Code)
	})
}

// TestSprintService_CanStart тестирует совещательную проверку
// зависимостей: completed и implemented считаются выполненными
func TestSprintService_CanStart(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()
	depA := uuid.New()
	depB := uuid.New()

	tests := []struct {
		name      string
		deps      []*models.TaskDependency
		statuses  map[uuid.UUID]models.AssetStatus
		canStart  bool
		unmetSize int
	}{
		{
			name:     "no dependencies",
			deps:     []*models.TaskDependency{},
			canStart: true,
		},
		{
			name: "all terminal",
			deps: []*models.TaskDependency{
				{DependentTaskID: taskID, DependencyTaskID: depA},
				{DependentTaskID: taskID, DependencyTaskID: depB},
			},
			statuses: map[uuid.UUID]models.AssetStatus{
				depA: models.StatusCompleted,
				depB: models.StatusImplemented,
			},
			canStart: true,
		},
		{
			name: "one in progress - blocked",
			deps: []*models.TaskDependency{
				{DependentTaskID: taskID, DependencyTaskID: depA},
				{DependentTaskID: taskID, DependencyTaskID: depB},
			},
			statuses: map[uuid.UUID]models.AssetStatus{
				depA: models.StatusInProgress,
				depB: models.StatusImplemented,
			},
			canStart:  false,
			unmetSize: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sprintRepo := new(MockSprintRepository)
			sprintRepo.On("DependenciesOf", mock.Anything, taskID).Return(tt.deps, nil)

			assetRepo := new(MockAssetRepository)
			if len(tt.deps) > 0 {
				assets := make([]*models.Asset, 0, len(tt.statuses))
				for id, status := range tt.statuses {
					assets = append(assets, &models.Asset{ID: id, Status: status})
				}
				assetRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(assets, nil)
			}

			svc := service.NewSprintService(sprintRepo, assetRepo)
			canStart, unmet, err := svc.CanStart(ctx, taskID)

			require.NoError(t, err)
			assert.Equal(t, tt.canStart, canStart)
			assert.Len(t, unmet, tt.unmetSize)
		})
	}
}
