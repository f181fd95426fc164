package handlers

import (
	"context"
	"time"

	"assetTracker/internal/models"
	"assetTracker/internal/notify"
	"assetTracker/internal/service"

	"github.com/google/uuid"
)

type AssetService interface {
	CreateAsset(ctx context.Context, actor *models.Profile, name, blurb string,
		category *models.AssetCategory, priority *models.AssetPriority, dueDate *time.Time) (*models.Asset, error)
	GetAssetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	ListAssets(ctx context.Context, status *models.AssetStatus, category *models.AssetCategory) ([]*models.Asset, error)
	UpdateAsset(ctx context.Context, actor *models.Profile, id uuid.UUID, options ...service.AssetOption) (*models.Asset, error)
	ChangeStatus(ctx context.Context, actor *models.Profile, id uuid.UUID, status models.AssetStatus) (*models.Asset, error)
	Claim(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.Asset, error)
	Unclaim(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.Asset, error)
	DeleteAsset(ctx context.Context, actor *models.Profile, id uuid.UUID) error
}

type RequestService interface {
	CreateRequest(ctx context.Context, actor *models.Profile, name, description string,
		priority *models.AssetPriority) (*models.Request, error)
	GetRequestByID(ctx context.Context, id uuid.UUID) (*models.Request, error)
	ListRequests(ctx context.Context, status *models.RequestStatus) ([]*models.Request, error)
	AcceptRequest(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.Request, *models.Asset, error)
	DenyRequest(ctx context.Context, actor *models.Profile, id uuid.UUID, reason string) (*models.Request, error)
	DeleteRequest(ctx context.Context, actor *models.Profile, id uuid.UUID) error
}

type EventService interface {
	CreateEvent(ctx context.Context, actor *models.Profile, params service.CreateEventParams) (*models.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListEvents(ctx context.Context, from, to time.Time) ([]*models.Event, error)
	UpdateEvent(ctx context.Context, actor *models.Profile, id uuid.UUID, params service.UpdateEventParams) (*models.Event, error)
	DeleteEvent(ctx context.Context, actor *models.Profile, id uuid.UUID) error
	DeleteEventWithLinkedTask(ctx context.Context, actor *models.Profile, id uuid.UUID) error
	CreateTaskFromDeliverable(ctx context.Context, actor *models.Profile, eventID uuid.UUID,
		category *models.AssetCategory, priority *models.AssetPriority) (*models.Asset, error)
}

type SprintService interface {
	CreateSprint(ctx context.Context, actor *models.Profile, name, description string) (*models.Sprint, error)
	GetSprintByID(ctx context.Context, id uuid.UUID) (*models.Sprint, error)
	ListSprints(ctx context.Context, status *models.SprintStatus) ([]*models.Sprint, error)
	UpdateSprint(ctx context.Context, actor *models.Profile, id uuid.UUID, name, description *string) (*models.Sprint, error)
	DeleteSprint(ctx context.Context, actor *models.Profile, id uuid.UUID) error

	AddTask(ctx context.Context, actor *models.Profile, sprintID, assetID uuid.UUID, orderIndex int) (*models.SprintTask, error)
	RemoveTask(ctx context.Context, actor *models.Profile, sprintID, assetID uuid.UUID) error
	ListTasks(ctx context.Context, sprintID uuid.UUID) ([]*models.Asset, error)
	ReorderTasks(ctx context.Context, actor *models.Profile, sprintID uuid.UUID, orders []service.TaskOrder) error
	RecomputeCompletion(ctx context.Context, sprintID uuid.UUID) error

	AddDependency(ctx context.Context, actor *models.Profile, dependentID, dependencyID uuid.UUID, sprintID *uuid.UUID) (*models.TaskDependency, error)
	RemoveDependency(ctx context.Context, actor *models.Profile, dependentID, dependencyID uuid.UUID) error
	DependenciesOf(ctx context.Context, assetID uuid.UUID) ([]*models.TaskDependency, error)
	DependentsOf(ctx context.Context, assetID uuid.UUID) ([]*models.TaskDependency, error)
	DependenciesForSprint(ctx context.Context, sprintID uuid.UUID) ([]*models.TaskDependency, error)
	CanStart(ctx context.Context, assetID uuid.UUID) (bool, []*models.TaskDependency, error)
}

type CommentService interface {
	CreateComment(ctx context.Context, actor *models.Profile, assetID, sprintID *uuid.UUID, content string) (*models.Comment, error)
	ListForAsset(ctx context.Context, assetID uuid.UUID) ([]*models.Comment, error)
	ListForSprint(ctx context.Context, sprintID uuid.UUID) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, actor *models.Profile, id uuid.UUID) error
}

type ProfileService interface {
	CreateProfile(ctx context.Context, email string, displayName *string) (*models.Profile, error)
	GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]*models.Profile, error)
	UpdateDisplayName(ctx context.Context, actor *models.Profile, id uuid.UUID, displayName *string) (*models.Profile, error)
	BlockProfile(ctx context.Context, actor *models.Profile, id uuid.UUID, reason *string) (*models.Profile, error)
	UnblockProfile(ctx context.Context, actor *models.Profile, id uuid.UUID) (*models.Profile, error)
}

type NotificationService interface {
	ListNotifications(ctx context.Context, page int) ([]*models.Notification, error)
}

type ToastSource interface {
	Active() []notify.Toast
}
