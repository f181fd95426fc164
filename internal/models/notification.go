package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string
type NotificationVariant string

const (
	NotifyTaskCreated            NotificationType = "task_created"
	NotifyTaskInProgress         NotificationType = "task_in_progress"
	NotifyTaskCompleted          NotificationType = "task_completed"
	NotifyTaskImplemented        NotificationType = "task_implemented"
	NotifyTaskClaimed            NotificationType = "task_claimed"
	NotifyTaskUnclaimed          NotificationType = "task_unclaimed"
	NotifyScheduleCreated        NotificationType = "schedule_created"
	NotifyScheduleUpdated        NotificationType = "schedule_updated"
	NotifyModelRequestCreated    NotificationType = "model_request_created"
	NotifyModelRequestAccepted   NotificationType = "model_request_accepted"
	NotifyModelRequestDenied     NotificationType = "model_request_denied"
	NotifyFeatureRequestCreated  NotificationType = "feature_request_created"
	NotifyFeatureRequestAccepted NotificationType = "feature_request_accepted"
	NotifyFeatureRequestDenied   NotificationType = "feature_request_denied"
	NotifyCommentCreated         NotificationType = "comment_created"
)

const (
	VariantSuccess NotificationVariant = "success"
	VariantInfo    NotificationVariant = "info"
	VariantWarning NotificationVariant = "warning"
	VariantError   NotificationVariant = "error"
)

// Notification - строка журнала активности (таблица notifications)
type Notification struct {
	ID        uuid.UUID           `json:"id" db:"id"`
	Type      NotificationType    `json:"type" db:"type"`
	Variant   NotificationVariant `json:"variant" db:"variant"`
	Title     string              `json:"title" db:"title"`
	Message   string              `json:"message" db:"message"`
	ActorName *string             `json:"actor_name,omitempty" db:"actor_name"`
	ItemName  *string             `json:"item_name,omitempty" db:"item_name"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
}
