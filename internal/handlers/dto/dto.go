package dto

import (
	"time"

	"assetTracker/internal/models"

	"github.com/google/uuid"
)

type CreateAssetRequest struct {
	Name     string                `json:"name"`
	Blurb    string                `json:"blurb"`
	Category *models.AssetCategory `json:"category,omitempty"`
	Priority *models.AssetPriority `json:"priority,omitempty"`
	DueDate  *time.Time            `json:"due_date,omitempty"`
}

type UpdateAssetRequest struct {
	Name     *string               `json:"name,omitempty"`
	Blurb    *string               `json:"blurb,omitempty"`
	Category *models.AssetCategory `json:"category,omitempty"`
	Priority *models.AssetPriority `json:"priority,omitempty"`
	DueDate  *time.Time            `json:"due_date,omitempty"`
}

type ChangeStatusRequest struct {
	Status models.AssetStatus `json:"status"`
}

type CreateRequestRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Priority    *models.AssetPriority `json:"priority,omitempty"`
}

type DenyRequestRequest struct {
	Reason string `json:"reason"`
}

type CreateEventRequest struct {
	Type           models.EventType        `json:"type"`
	Title          string                  `json:"title"`
	Description    *string                 `json:"description,omitempty"`
	EventDate      time.Time               `json:"event_date"`
	EventTime      *string                 `json:"event_time,omitempty"`
	Visibility     *models.EventVisibility `json:"visibility,omitempty"`
	LinkedAssetID  *uuid.UUID              `json:"linked_asset_id,omitempty"`
	AutoCreateTask bool                    `json:"auto_create_task"`
}

type UpdateEventRequest struct {
	Type           *models.EventType       `json:"type,omitempty"`
	Title          *string                 `json:"title,omitempty"`
	Description    *string                 `json:"description,omitempty"`
	EventDate      *time.Time              `json:"event_date,omitempty"`
	EventTime      *string                 `json:"event_time,omitempty"`
	Visibility     *models.EventVisibility `json:"visibility,omitempty"`
	LinkedAssetID  *uuid.UUID              `json:"linked_asset_id,omitempty"`
	AutoCreateTask *bool                   `json:"auto_create_task,omitempty"`
}

type CreateTaskFromEventRequest struct {
	Category *models.AssetCategory `json:"category,omitempty"`
	Priority *models.AssetPriority `json:"priority,omitempty"`
}

type CreateSprintRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateSprintRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type AddSprintTaskRequest struct {
	AssetID    uuid.UUID `json:"asset_id"`
	OrderIndex *int      `json:"order_index,omitempty"`
}

type ReorderTasksRequest struct {
	Orders []TaskOrderItem `json:"orders"`
}

type TaskOrderItem struct {
	AssetID    uuid.UUID `json:"asset_id"`
	OrderIndex int       `json:"order_index"`
}

type AddDependencyRequest struct {
	DependencyTaskID uuid.UUID  `json:"dependency_task_id"`
	SprintID         *uuid.UUID `json:"sprint_id,omitempty"`
}

type CreateCommentRequest struct {
	AssetID  *uuid.UUID `json:"asset_id,omitempty"`
	SprintID *uuid.UUID `json:"sprint_id,omitempty"`
	Content  string     `json:"content"`
}

type CreateProfileRequest struct {
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name,omitempty"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
}

type BlockProfileRequest struct {
	Reason *string `json:"reason,omitempty"`
}
