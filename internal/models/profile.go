package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	DisplayName   *string    `json:"display_name,omitempty" db:"display_name"`
	IsBlocked     bool       `json:"is_blocked" db:"is_blocked"`
	BlockedAt     *time.Time `json:"blocked_at,omitempty" db:"blocked_at"`
	BlockedReason *string    `json:"blocked_reason,omitempty" db:"blocked_reason"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Label - имя для отображения в уведомлениях: display_name, иначе
// часть email до @
func (p *Profile) Label() string {
	if p.DisplayName != nil && *p.DisplayName != "" {
		return *p.DisplayName
	}
	local, _, _ := strings.Cut(p.Email, "@")
	return local
}
