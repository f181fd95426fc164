package service

import (
	"context"
	"fmt"

	"assetTracker/internal/models"
)

// DefaultNotificationPageSize - размер страницы журнала активности
const DefaultNotificationPageSize = 20

type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// ListNotifications возвращает страницу журнала, свежие первыми
func (s *NotificationService) ListNotifications(ctx context.Context, page int) ([]*models.Notification, error) {
	if page < 0 {
		page = 0
	}
	rows, err := s.repo.List(ctx, page, DefaultNotificationPageSize)
	if err != nil {
		return nil, fmt.Errorf("получение журнала активности: %w", err)
	}
	return rows, nil
}
