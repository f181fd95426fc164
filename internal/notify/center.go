package notify

import (
	"context"
	"sync"
	"time"

	"assetTracker/internal/logger"
	"assetTracker/internal/models"
	"assetTracker/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxToasts - одновременно видно не больше пяти тостов, лишние
	// старшие вытесняются
	MaxToasts = 5
	// ToastDuration - время жизни тоста
	ToastDuration = 8 * time.Second
)

// Toast - всплывающее уведомление для активной сессии
type Toast struct {
	ID        uuid.UUID                  `json:"id"`
	Type      models.NotificationType    `json:"type"`
	Title     string                     `json:"title"`
	Message   string                     `json:"message"`
	Variant   models.NotificationVariant `json:"variant"`
	Duration  time.Duration              `json:"duration_ms"`
	CreatedAt time.Time                  `json:"created_at"`
}

// Center принимает события бизнес-слоя, строит тост для автора и
// fire-and-forget пишет строку в журнал активности. Ошибка записи не
// трогает ни тост, ни вызвавшую операцию.
type Center struct {
	store service.NotificationRepository
	clock func() time.Time

	mu     sync.RWMutex
	toasts []Toast // свежие в начале
}

var _ service.Notifier = (*Center)(nil)

func NewCenter(store service.NotificationRepository) *Center {
	return &Center{
		store: store,
		clock: time.Now,
	}
}

// SetClock подменяет источник времени в тестах
func (c *Center) SetClock(clock func() time.Time) {
	c.clock = clock
}

func (c *Center) Notify(ctx context.Context, t models.NotificationType, itemName string, actor *models.Profile) {
	actorName := ""
	if actor != nil {
		actorName = actor.Label()
	}

	title, message, variant := Render(t, actorName, itemName, true)
	c.push(Toast{
		ID:        uuid.New(),
		Type:      t,
		Title:     title,
		Message:   message,
		Variant:   variant,
		Duration:  ToastDuration,
		CreatedAt: c.clock(),
	})

	// журнал хранит формат "для остальных", чтобы запись читалась
	// одинаково у всех
	_, logMessage, _ := Render(t, actorName, itemName, false)
	row := &models.Notification{
		ID:      uuid.New(),
		Type:    t,
		Variant: variant,
		Title:   title,
		Message: logMessage,
	}
	if actorName != "" {
		row.ActorName = &actorName
	}
	if itemName != "" {
		row.ItemName = &itemName
	}

	go func() {
		persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := c.store.Insert(persistCtx, row); err != nil {
			logger.Warn("Notify: Ошибка записи в журнал активности", zap.Error(err),
				zap.String("type", string(t)))
		}
	}()
}

func (c *Center) push(t Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.toasts = append([]Toast{t}, c.toasts...)
	if len(c.toasts) > MaxToasts {
		c.toasts = c.toasts[:MaxToasts]
	}
}

// Active возвращает неистёкшие тосты, свежие первыми
func (c *Center) Active() []Toast {
	now := c.clock()

	c.mu.Lock()
	defer c.mu.Unlock()

	alive := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Sub(t.CreatedAt) < t.Duration {
			alive = append(alive, t)
		}
	}
	c.toasts = alive

	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}
