package service

import (
	"context"
	"time"

	"assetTracker/internal/models"

	"github.com/google/uuid"
)

type AssetRepository interface {
	Create(ctx context.Context, a *models.Asset) error
	Update(ctx context.Context, a *models.Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Asset, error)
	List(ctx context.Context, status *models.AssetStatus, category *models.AssetCategory) ([]*models.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UnclaimAllBy(ctx context.Context, userID uuid.UUID) (int64, error)
}

type RequestRepository interface {
	Create(ctx context.Context, q *models.Request) error
	Update(ctx context.Context, q *models.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error)
	List(ctx context.Context, status *models.RequestStatus) ([]*models.Request, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UnlinkAsset(ctx context.Context, assetID uuid.UUID) (int64, error)
}

type EventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	List(ctx context.Context, from, to time.Time) ([]*models.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UnlinkAsset(ctx context.Context, assetID uuid.UUID) (int64, error)
}

type SprintRepository interface {
	Create(ctx context.Context, sp *models.Sprint) error
	Update(ctx context.Context, sp *models.Sprint) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sprint, error)
	List(ctx context.Context, status *models.SprintStatus) ([]*models.Sprint, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CompleteIfActive(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	ListActiveIDs(ctx context.Context, limit int) ([]uuid.UUID, error)

	AddTask(ctx context.Context, st *models.SprintTask) error
	RemoveTask(ctx context.Context, sprintID, assetID uuid.UUID) error
	ListTasks(ctx context.Context, sprintID uuid.UUID) ([]*models.SprintTask, error)
	SprintsForAsset(ctx context.Context, assetID uuid.UUID) ([]uuid.UUID, error)
	MaxOrderIndex(ctx context.Context, sprintID uuid.UUID) (int, error)
	SetTaskOrder(ctx context.Context, sprintID, assetID uuid.UUID, orderIndex int) error

	AddDependency(ctx context.Context, d *models.TaskDependency) error
	RemoveDependency(ctx context.Context, dependentID, dependencyID uuid.UUID) error
	DependenciesOf(ctx context.Context, assetID uuid.UUID) ([]*models.TaskDependency, error)
	DependentsOf(ctx context.Context, assetID uuid.UUID) ([]*models.TaskDependency, error)
	DependenciesForSprint(ctx context.Context, sprintID uuid.UUID) ([]*models.TaskDependency, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListForAsset(ctx context.Context, assetID uuid.UUID) ([]*models.Comment, error)
	ListForSprint(ctx context.Context, sprintID uuid.UUID) ([]*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProfileRepository interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
}

type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, page, pageSize int) ([]*models.Notification, error)
}

// Notifier - тост про собственное действие + fire-and-forget запись
// в журнал активности
type Notifier interface {
	Notify(ctx context.Context, t models.NotificationType, itemName string, actor *models.Profile)
}

// SprintRecomputer - пересчёт автозавершения спринтов, в которых
// состоит задача
type SprintRecomputer interface {
	RecomputeForAsset(ctx context.Context, assetID uuid.UUID) error
}
