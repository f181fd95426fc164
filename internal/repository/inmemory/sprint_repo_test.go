package inmemory

import (
	"context"
	"testing"
	"time"

	"assetTracker/internal/models"
	repo "assetTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSprint(name string) *models.Sprint {
	return &models.Sprint{
		ID:     uuid.New(),
		Name:   name,
		Status: models.SprintActive,
	}
}

// TestSprintStorage_CompleteIfActive тестирует идемпотентное
// автозавершение: второй вызов ничего не меняет
func TestSprintStorage_CompleteIfActive(t *testing.T) {
	ctx := context.Background()
	s := NewSprintStorage()

	sp := newSprint("Sprint 1")
	require.NoError(t, s.Create(ctx, sp))

	at := time.Now()
	completed, err := s.CompleteIfActive(ctx, sp.ID, at)
	require.NoError(t, err)
	assert.True(t, completed)

	again, err := s.CompleteIfActive(ctx, sp.ID, at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, again)

	stored, err := s.GetByID(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SprintCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)
	assert.True(t, stored.CompletedAt.Equal(at))
}

// TestSprintStorage_Tasks тестирует связи спринт-задача: дубликат,
// порядок по order_index, максимальный индекс
func TestSprintStorage_Tasks(t *testing.T) {
	ctx := context.Background()
	s := NewSprintStorage()

	sp := newSprint("Sprint 1")
	require.NoError(t, s.Create(ctx, sp))

	taskA := uuid.New()
	taskB := uuid.New()

	max, err := s.MaxOrderIndex(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, max)

	require.NoError(t, s.AddTask(ctx, &models.SprintTask{SprintID: sp.ID, AssetID: taskA, OrderIndex: 1}))
	require.NoError(t, s.AddTask(ctx, &models.SprintTask{SprintID: sp.ID, AssetID: taskB, OrderIndex: 0}))

	err = s.AddTask(ctx, &models.SprintTask{SprintID: sp.ID, AssetID: taskA, OrderIndex: 5})
	assert.ErrorIs(t, err, repo.ErrAlreadyExists)

	links, err := s.ListTasks(ctx, sp.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, taskB, links[0].AssetID)
	assert.Equal(t, taskA, links[1].AssetID)

	max, err = s.MaxOrderIndex(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, max)

	require.NoError(t, s.SetTaskOrder(ctx, sp.ID, taskB, 7))
	links, err = s.ListTasks(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, taskA, links[0].AssetID)

	require.NoError(t, s.RemoveTask(ctx, sp.ID, taskA))
	assert.ErrorIs(t, s.RemoveTask(ctx, sp.ID, taskA), repo.ErrNotFound)
}

// TestSprintStorage_SprintsForAsset тестирует обратный поиск спринтов
// по задаче
func TestSprintStorage_SprintsForAsset(t *testing.T) {
	ctx := context.Background()
	s := NewSprintStorage()

	spA := newSprint("A")
	spB := newSprint("B")
	require.NoError(t, s.Create(ctx, spA))
	require.NoError(t, s.Create(ctx, spB))

	taskID := uuid.New()
	require.NoError(t, s.AddTask(ctx, &models.SprintTask{SprintID: spA.ID, AssetID: taskID}))
	require.NoError(t, s.AddTask(ctx, &models.SprintTask{SprintID: spB.ID, AssetID: taskID}))

	ids, err := s.SprintsForAsset(ctx, taskID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{spA.ID, spB.ID}, ids)
}

// TestSprintStorage_Dependencies тестирует хранение зависимостей:
// дубликат отклоняется, выборки в обе стороны
func TestSprintStorage_Dependencies(t *testing.T) {
	ctx := context.Background()
	s := NewSprintStorage()

	dependent := uuid.New()
	dependency := uuid.New()

	dep := &models.TaskDependency{
		ID:               uuid.New(),
		DependentTaskID:  dependent,
		DependencyTaskID: dependency,
	}
	require.NoError(t, s.AddDependency(ctx, dep))

	dup := &models.TaskDependency{
		ID:               uuid.New(),
		DependentTaskID:  dependent,
		DependencyTaskID: dependency,
	}
	assert.ErrorIs(t, s.AddDependency(ctx, dup), repo.ErrAlreadyExists)

	of, err := s.DependenciesOf(ctx, dependent)
	require.NoError(t, err)
	require.Len(t, of, 1)
	assert.Equal(t, dependency, of[0].DependencyTaskID)

	dependents, err := s.DependentsOf(ctx, dependency)
	require.NoError(t, err)
	require.Len(t, dependents, 1)

	require.NoError(t, s.RemoveDependency(ctx, dependent, dependency))
	assert.ErrorIs(t, s.RemoveDependency(ctx, dependent, dependency), repo.ErrNotFound)
}

// TestSprintStorage_DeleteCleansUp тестирует каскад: с удалением
// спринта уходят его связи и сквозные зависимости
func TestSprintStorage_DeleteCleansUp(t *testing.T) {
	ctx := context.Background()
	s := NewSprintStorage()

	sp := newSprint("Sprint 1")
	require.NoError(t, s.Create(ctx, sp))
	require.NoError(t, s.AddTask(ctx, &models.SprintTask{SprintID: sp.ID, AssetID: uuid.New()}))
	require.NoError(t, s.AddDependency(ctx, &models.TaskDependency{
		ID:               uuid.New(),
		DependentTaskID:  uuid.New(),
		DependencyTaskID: uuid.New(),
		SprintID:         &sp.ID,
	}))

	require.NoError(t, s.Delete(ctx, sp.ID))

	links, err := s.ListTasks(ctx, sp.ID)
	require.NoError(t, err)
	assert.Empty(t, links)

	deps, err := s.DependenciesForSprint(ctx, sp.ID)
	require.NoError(t, err)
	assert.Empty(t, deps)
}
