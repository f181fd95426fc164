package service

import (
	"time"

	"assetTracker/internal/models"
)

// функция подтверждения обновления: применяется к задаче перед записью
type AssetOption func(*models.Asset)

func WithName(name string) AssetOption {
	return func(a *models.Asset) {
		a.Name = name
	}
}

func WithBlurb(blurb string) AssetOption {
	return func(a *models.Asset) {
		a.Blurb = blurb
	}
}

func WithCategory(category *models.AssetCategory) AssetOption {
	return func(a *models.Asset) {
		a.Category = category
	}
}

func WithPriority(priority *models.AssetPriority) AssetOption {
	return func(a *models.Asset) {
		a.Priority = priority
	}
}

func WithDueDate(dueDate *time.Time) AssetOption {
	return func(a *models.Asset) {
		a.DueDate = dueDate
	}
}
