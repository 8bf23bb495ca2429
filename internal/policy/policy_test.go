package policy

import (
	"testing"

	"betaware/internal/model"
	"betaware/internal/token"

	"github.com/stretchr/testify/assert"
)

func TestCanAct(t *testing.T) {
	tests := []struct {
		name    string
		claims  *token.Claims
		ownerID int64
		want    bool
	}{
		{
			name:    "owner acting on own resource",
			claims:  &token.Claims{UserID: 1, Role: model.RoleUser},
			ownerID: 1,
			want:    true,
		},
		{
			name:    "non-owner non-admin",
			claims:  &token.Claims{UserID: 2, Role: model.RoleUser},
			ownerID: 1,
			want:    false,
		},
		{
			name:    "admin on someone else's resource",
			claims:  &token.Claims{UserID: 3, Role: model.RoleAdmin},
			ownerID: 1,
			want:    true,
		},
		{
			name:    "admin on own resource",
			claims:  &token.Claims{UserID: 1, Role: model.RoleAdmin},
			ownerID: 1,
			want:    true,
		},
		{
			name:    "no claims",
			claims:  nil,
			ownerID: 1,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAct(tt.claims, tt.ownerID))
		})
	}
}
