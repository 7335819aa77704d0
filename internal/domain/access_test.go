package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanEditCharacter(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	dm := &CampaignMember{Role: RoleDM}
	player := &CampaignMember{Role: RolePlayer}

	owned := &Character{OwnerID: &owner}
	unowned := &Character{}

	tests := []struct {
		name       string
		membership *CampaignMember
		character  *Character
		userID     uuid.UUID
		expected   bool
	}{
		{"dm edits anything", dm, unowned, other, true},
		{"owner edits own character", player, owned, owner, true},
		{"player cannot edit someone else's character", player, owned, other, false},
		{"player cannot edit unowned character", player, unowned, owner, false},
		{"no membership no edit", nil, owned, owner, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanEditCharacter(tt.membership, tt.character, tt.userID))
		})
	}
}
