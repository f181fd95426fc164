package postgres

import (
	"context"
	"fmt"

	"assetTracker/internal/logger"
	"assetTracker/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(s *Storage) *NotificationRepo {
	return &NotificationRepo{pool: s.pool}
}

func (r *NotificationRepo) Insert(ctx context.Context, n *models.Notification) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notifications (id, type, variant, title, message, actor_name, item_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at`,
		n.ID, n.Type, n.Variant, n.Title, n.Message, n.ActorName, n.ItemName,
	).Scan(&n.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось сохранить уведомление", err)
		return fmt.Errorf("сохранение уведомления: %w", err)
	}
	return nil
}

// List - постраничная выдача журнала, свежие сверху. Курсорная пагинация
// клиента: страница короче pageSize означает конец.
func (r *NotificationRepo) List(ctx context.Context, page, pageSize int) ([]*models.Notification, error) {
	offset := page * pageSize

	rows, err := r.pool.Query(ctx,
		`SELECT id, type, variant, title, message, actor_name, item_name, created_at
			FROM notifications
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`, pageSize, offset)
	if err != nil {
		logger.Error("Repository: Не удалось получить уведомления", err)
		return nil, fmt.Errorf("получение уведомлений: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.Type, &n.Variant, &n.Title, &n.Message,
			&n.ActorName, &n.ItemName, &n.CreatedAt); err != nil {
			logger.Warn("Repository: Ошибка сканирования уведомления", zap.Error(err))
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
