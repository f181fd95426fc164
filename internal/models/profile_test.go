package models_test

import (
	"testing"

	"assetTracker/internal/models"

	"github.com/stretchr/testify/assert"
)

// TestProfile_Label тестирует имя для уведомлений: display_name, иначе
// часть email до @
func TestProfile_Label(t *testing.T) {
	alice := "Алиса"
	empty := ""

	tests := []struct {
		name    string
		profile models.Profile
		want    string
	}{
		{
			name:    "display name wins",
			profile: models.Profile{Email: "alice@example.com", DisplayName: &alice},
			want:    "Алиса",
		},
		{
			name:    "email local part without display name",
			profile: models.Profile{Email: "alice@example.com"},
			want:    "alice",
		},
		{
			name:    "empty display name falls back to email",
			profile: models.Profile{Email: "bob@corp.example.com", DisplayName: &empty},
			want:    "bob",
		},
		{
			name:    "email without at sign as is",
			profile: models.Profile{Email: "alice"},
			want:    "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.Label())
		})
	}
}
