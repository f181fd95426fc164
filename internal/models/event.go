package models

import (
	"time"

	"github.com/google/uuid"
)

type EventType string
type EventVisibility string

const (
	EventMilestone   EventType = "milestone"
	EventDeliverable EventType = "deliverable"
	EventLabel       EventType = "label"
)

const (
	VisibilityInternal EventVisibility = "internal"
	VisibilityExternal EventVisibility = "external"
)

// Event - запись календаря
type Event struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	Type           EventType        `json:"type" db:"type"`
	Title          string           `json:"title" db:"title"`
	Description    *string          `json:"description,omitempty" db:"description"`
	EventDate      time.Time        `json:"event_date" db:"event_date"`
	EventTime      *string          `json:"event_time,omitempty" db:"event_time"`
	Visibility     *EventVisibility `json:"visibility,omitempty" db:"visibility"`
	LinkedAssetID  *uuid.UUID       `json:"linked_asset_id,omitempty" db:"linked_asset_id"`
	AutoCreateTask bool             `json:"auto_create_task" db:"auto_create_task"`
	CreatedBy      *uuid.UUID       `json:"created_by,omitempty" db:"created_by"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time       `json:"updated_at,omitempty" db:"updated_at"`
	Version        int              `json:"version" db:"version"`
}

func (t EventType) Valid() bool {
	switch t {
	case EventMilestone, EventDeliverable, EventLabel:
		return true
	}
	return false
}
