package notify_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"assetTracker/internal/models"
	"assetTracker/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore собирает записанные строки журнала
type recordingStore struct {
	mu   sync.Mutex
	rows []*models.Notification
}

func (s *recordingStore) Insert(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, n)
	return nil
}

func (s *recordingStore) List(ctx context.Context, page, pageSize int) ([]*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Notification, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *recordingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// TestCenter_ToastRing тестирует кольцо тостов: не больше пяти,
// свежие первыми
func TestCenter_ToastRing(t *testing.T) {
	ctx := context.Background()
	actor := &models.Profile{Email: "alice@example.com"}

	center := notify.NewCenter(&recordingStore{})
	now := time.Now()
	center.SetClock(func() time.Time { return now })

	names := []string{"a", "b", "c", "d", "e", "f", "g"}
	for _, name := range names {
		center.Notify(ctx, models.NotifyTaskCreated, name, actor)
	}

	active := center.Active()
	require.Len(t, active, notify.MaxToasts)
	// последний добавленный - первый в списке
	assert.Contains(t, active[0].Message, "g")
	assert.Contains(t, active[notify.MaxToasts-1].Message, "c")
}

// TestCenter_ToastExpiry тестирует истечение тостов по часам
func TestCenter_ToastExpiry(t *testing.T) {
	ctx := context.Background()
	actor := &models.Profile{Email: "alice@example.com"}

	center := notify.NewCenter(&recordingStore{})
	now := time.Now()
	center.SetClock(func() time.Time { return now })

	center.Notify(ctx, models.NotifyTaskCreated, "старый", actor)

	now = now.Add(notify.ToastDuration / 2)
	center.Notify(ctx, models.NotifyTaskCompleted, "свежий", actor)

	// первый тост пережил половину срока, оба живы
	require.Len(t, center.Active(), 2)

	// ещё полсрока: первый истёк ровно, второй ещё жив
	now = now.Add(notify.ToastDuration / 2)
	active := center.Active()
	require.Len(t, active, 1)
	assert.Equal(t, models.NotifyTaskCompleted, active[0].Type)

	now = now.Add(notify.ToastDuration)
	assert.Empty(t, center.Active())
}

// TestCenter_PersistsToLog тестирует асинхронную запись в журнал:
// строка хранит формат "для остальных"
func TestCenter_PersistsToLog(t *testing.T) {
	ctx := context.Background()
	name := "Алиса"
	actor := &models.Profile{Email: "alice@example.com", DisplayName: &name}

	store := &recordingStore{}
	center := notify.NewCenter(store)

	center.Notify(ctx, models.NotifyTaskClaimed, "Логотип", actor)

	require.Eventually(t, func() bool { return store.count() == 1 },
		time.Second, 10*time.Millisecond)

	rows, err := store.List(ctx, 0, 20)
	require.NoError(t, err)
	row := rows[0]
	assert.Equal(t, models.NotifyTaskClaimed, row.Type)
	require.NotNil(t, row.ActorName)
	assert.Equal(t, "Алиса", *row.ActorName)
	require.NotNil(t, row.ItemName)
	assert.Equal(t, "Логотип", *row.ItemName)
	// формат "для остальных" называет автора, свой вариант - нет
	assert.Contains(t, row.Message, "Алиса")
}

// TestRender тестирует шаблоны: свой текст без имени автора, чужой - с
// именем, неизвестный тип не падает
func TestRender(t *testing.T) {
	title, own, variant := notify.Render(models.NotifyTaskClaimed, "Алиса", "Логотип", true)
	assert.NotEmpty(t, title)
	assert.Contains(t, own, "Логотип")
	assert.NotContains(t, own, "Алиса")
	assert.NotEmpty(t, variant)

	_, other, _ := notify.Render(models.NotifyTaskClaimed, "Алиса", "Логотип", false)
	assert.Contains(t, other, "Алиса")
	assert.Contains(t, other, "Логотип")

	title, message, _ := notify.Render(models.NotificationType("unknown_kind"), "Алиса", "Логотип", false)
	assert.NotEmpty(t, title)
	assert.NotEmpty(t, message)
}
