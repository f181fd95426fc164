package models

import (
	"time"

	"github.com/google/uuid"
)

type SprintStatus string

const (
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
)

type Sprint struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Description string       `json:"description" db:"description"`
	Status      SprintStatus `json:"status" db:"status"`
	CreatedBy   *uuid.UUID   `json:"created_by,omitempty" db:"created_by"`
	CompletedAt *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty" db:"updated_at"`
	Version     int          `json:"version" db:"version"`
}

// SprintTask - связь many-to-many спринта и задачи с порядковым индексом
type SprintTask struct {
	SprintID   uuid.UUID `json:"sprint_id" db:"sprint_id"`
	AssetID    uuid.UUID `json:"asset_id" db:"asset_id"`
	OrderIndex int       `json:"order_index" db:"order_index"`
}

// TaskDependency - направленное ребро: dependent не может стартовать,
// пока dependency не completed/implemented. Чисто информационное.
type TaskDependency struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	DependentTaskID  uuid.UUID  `json:"dependent_task_id" db:"dependent_task_id"`
	DependencyTaskID uuid.UUID  `json:"dependency_task_id" db:"dependency_task_id"`
	SprintID         *uuid.UUID `json:"sprint_id,omitempty" db:"sprint_id"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}
