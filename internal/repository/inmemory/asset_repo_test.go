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

func newAsset(name string, status models.AssetStatus) *models.Asset {
	return &models.Asset{
		ID:     uuid.New(),
		Name:   name,
		Status: status,
	}
}

// TestAssetStorage_VersionConflict тестирует оптимистическую блокировку
func TestAssetStorage_VersionConflict(t *testing.T) {
	ctx := context.Background()
	s := NewAssetStorage()

	a := newAsset("Логотип", models.StatusPending)
	require.NoError(t, s.Create(ctx, a))
	assert.Equal(t, 1, a.Version)

	first, err := s.GetByID(ctx, a.ID)
	require.NoError(t, err)
	second, err := s.GetByID(ctx, a.ID)
	require.NoError(t, err)

	first.Name = "Логотип v2"
	require.NoError(t, s.Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	// второй читатель несёт устаревшую версию
	second.Name = "Логотип v3"
	err = s.Update(ctx, second)
	assert.ErrorIs(t, err, repo.ErrVersionConflict)

	stored, err := s.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Логотип v2", stored.Name)
}

// TestAssetStorage_ImplementedVisibilityWindow тестирует окно видимости:
// implemented старше семи дней скрывается из фильтра, но строка остаётся
func TestAssetStorage_ImplementedVisibilityWindow(t *testing.T) {
	ctx := context.Background()
	s := NewAssetStorage()

	now := time.Now()
	s.SetClock(func() time.Time { return now })

	fresh := newAsset("свежая", models.StatusImplemented)
	freshAt := now.Add(-24 * time.Hour)
	fresh.ImplementedAt = &freshAt
	require.NoError(t, s.Create(ctx, fresh))

	stale := newAsset("старая", models.StatusImplemented)
	staleAt := now.Add(-models.VisibilityWindow - time.Hour)
	stale.ImplementedAt = &staleAt
	require.NoError(t, s.Create(ctx, stale))

	implemented := models.StatusImplemented
	visible, err := s.List(ctx, &implemented, nil)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "свежая", visible[0].Name)

	// без фильтра по статусу окно не применяется
	all, err := s.List(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// прямое чтение по id не фильтруется
	_, err = s.GetByID(ctx, stale.ID)
	assert.NoError(t, err)
}

// TestAssetStorage_ListOrderAndFilters тестирует порядок (свежие первыми)
// и фильтр по категории
func TestAssetStorage_ListOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	s := NewAssetStorage()

	design := models.CategoryDesign
	first := newAsset("первая", models.StatusPending)
	first.Category = &design
	second := newAsset("вторая", models.StatusPending)

	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, second))

	all, err := s.List(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "вторая", all[0].Name)

	byCategory, err := s.List(ctx, nil, &design)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "первая", byCategory[0].Name)
}

// TestAssetStorage_UnclaimAllBy тестирует массовое снятие claim'ов
// при блокировке пользователя
func TestAssetStorage_UnclaimAllBy(t *testing.T) {
	ctx := context.Background()
	s := NewAssetStorage()
	userID := uuid.New()
	otherID := uuid.New()

	now := time.Now()
	mine := newAsset("моя", models.StatusInProgress)
	mine.ClaimedBy = &userID
	mine.ClaimedAt = &now
	foreign := newAsset("чужая", models.StatusInProgress)
	foreign.ClaimedBy = &otherID

	require.NoError(t, s.Create(ctx, mine))
	require.NoError(t, s.Create(ctx, foreign))

	n, err := s.UnclaimAllBy(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	released, err := s.GetByID(ctx, mine.ID)
	require.NoError(t, err)
	assert.Nil(t, released.ClaimedBy)
	assert.Nil(t, released.ClaimedAt)

	untouched, err := s.GetByID(ctx, foreign.ID)
	require.NoError(t, err)
	assert.NotNil(t, untouched.ClaimedBy)
}

// TestAssetStorage_Delete тестирует удаление и повторное удаление
func TestAssetStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewAssetStorage()

	a := newAsset("Логотип", models.StatusPending)
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Delete(ctx, a.ID))

	_, err := s.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, a.ID), repo.ErrNotFound)
}
