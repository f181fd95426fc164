package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment - комментарий к задаче или спринту (ровно одна ссылка не nil)
type Comment struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	AssetID   *uuid.UUID `json:"asset_id,omitempty" db:"asset_id"`
	SprintID  *uuid.UUID `json:"sprint_id,omitempty" db:"sprint_id"`
	Content   string     `json:"content" db:"content"`
	CreatedBy uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
