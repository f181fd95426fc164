package models

import (
	"time"

	"github.com/google/uuid"
)

type AssetStatus string
type AssetCategory string
type AssetPriority string

const (
	StatusPending     AssetStatus = "pending"
	StatusInProgress  AssetStatus = "in_progress"
	StatusCompleted   AssetStatus = "completed"
	StatusImplemented AssetStatus = "implemented"
)

const (
	CategoryArt            AssetCategory = "art"
	CategoryCode           AssetCategory = "code"
	CategoryAudio          AssetCategory = "audio"
	CategoryDesign         AssetCategory = "design"
	CategoryDocumentation  AssetCategory = "documentation"
	CategoryMarketing      AssetCategory = "marketing"
	CategoryInfrastructure AssetCategory = "infrastructure"
	CategoryOther          AssetCategory = "other"
)

const (
	PriorityLow      AssetPriority = "low"
	PriorityMedium   AssetPriority = "medium"
	PriorityHigh     AssetPriority = "high"
	PriorityCritical AssetPriority = "critical"
)

// окно видимости для implemented задач и denied заявок
const VisibilityWindow = 7 * 24 * time.Hour

type Asset struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Blurb         string         `json:"blurb" db:"blurb"`
	Status        AssetStatus    `json:"status" db:"status"`
	Category      *AssetCategory `json:"category,omitempty" db:"category"`
	Priority      *AssetPriority `json:"priority,omitempty" db:"priority"`
	DueDate       *time.Time     `json:"due_date,omitempty" db:"due_date"`
	CreatedBy     *uuid.UUID     `json:"created_by,omitempty" db:"created_by"`
	ClaimedBy     *uuid.UUID     `json:"claimed_by,omitempty" db:"claimed_by"`
	ClaimedAt     *time.Time     `json:"claimed_at,omitempty" db:"claimed_at"`
	InProgressBy  *uuid.UUID     `json:"in_progress_by,omitempty" db:"in_progress_by"`
	InProgressAt  *time.Time     `json:"in_progress_at,omitempty" db:"in_progress_at"`
	CompletedBy   *uuid.UUID     `json:"completed_by,omitempty" db:"completed_by"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
	ImplementedBy *uuid.UUID     `json:"implemented_by,omitempty" db:"implemented_by"`
	ImplementedAt *time.Time     `json:"implemented_at,omitempty" db:"implemented_at"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty" db:"updated_at"`
	Version       int            `json:"version" db:"version"`
}

func (s AssetStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusImplemented:
		return true
	}
	return false
}

// терминальное состояние с точки зрения зависимостей: задача-зависимость
// считается выполненной, если она completed или implemented
func (s AssetStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusImplemented
}

func (c AssetCategory) Valid() bool {
	switch c {
	case CategoryArt, CategoryCode, CategoryAudio, CategoryDesign,
		CategoryDocumentation, CategoryMarketing, CategoryInfrastructure, CategoryOther:
		return true
	}
	return false
}

func (p AssetPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}
