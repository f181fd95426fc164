package realtime

import (
	"context"
	"encoding/json"
	"time"

	"assetTracker/internal/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	channelName      = "row_changes"
	reconnectBackoff = 3 * time.Second
)

// Listener держит выделенное соединение с LISTEN row_changes и
// транслирует уведомления в Hub. При обрыве переподключается с
// паузой.
type Listener struct {
	connStr string
	hub     *Hub
}

func NewListener(connStr string, hub *Hub) *Listener {
	return &Listener{
		connStr: connStr,
		hub:     hub,
	}
}

// Run блокируется до отмены контекста
func (l *Listener) Run(ctx context.Context) {
	logger.Info("Realtime: Слушатель row_changes запущен")
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				logger.Info("Realtime: Слушатель row_changes остановлен")
				return
			}
			logger.Warn("Realtime: Соединение слушателя потеряно, переподключение", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			logger.Info("Realtime: Слушатель row_changes остановлен")
			return
		case <-time.After(reconnectBackoff):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.connStr)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+channelName); err != nil {
		return err
	}

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var change Change
		if err := json.Unmarshal([]byte(notification.Payload), &change); err != nil {
			logger.Warn("Realtime: Нечитаемая нагрузка NOTIFY", zap.Error(err))
			continue
		}
		l.hub.Broadcast(change)
	}
}
