package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestOpen     RequestStatus = "open"
	RequestAccepted RequestStatus = "accepted"
	RequestDenied   RequestStatus = "denied"
)

// RequestKind различает две таблицы с одинаковой формой
type RequestKind string

const (
	ModelRequestKind   RequestKind = "model_request"
	FeatureRequestKind RequestKind = "feature_request"
)

// Request - заявка (model request или feature request, форма одна)
type Request struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Description   string         `json:"description" db:"description"`
	Priority      *AssetPriority `json:"priority,omitempty" db:"priority"`
	Status        RequestStatus  `json:"status" db:"status"`
	CreatedBy     *uuid.UUID     `json:"created_by,omitempty" db:"created_by"`
	AcceptedBy    *uuid.UUID     `json:"accepted_by,omitempty" db:"accepted_by"`
	AcceptedAt    *time.Time     `json:"accepted_at,omitempty" db:"accepted_at"`
	DeniedBy      *uuid.UUID     `json:"denied_by,omitempty" db:"denied_by"`
	DeniedAt      *time.Time     `json:"denied_at,omitempty" db:"denied_at"`
	DenialReason  *string        `json:"denial_reason,omitempty" db:"denial_reason"`
	LinkedAssetID *uuid.UUID     `json:"linked_asset_id,omitempty" db:"linked_asset_id"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty" db:"updated_at"`
	Version       int            `json:"version" db:"version"`
}

func (k RequestKind) Table() string {
	if k == FeatureRequestKind {
		return "feature_requests"
	}
	return "model_requests"
}
