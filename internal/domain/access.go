package domain

import "github.com/google/uuid"

// CanEditCharacter is the single ownership rule used by every
// character-mutating endpoint shared between the DM and the owning player
// (HP, inventory order, inventory fields, equip). DMs may always edit;
// players only their own characters.
func CanEditCharacter(membership *CampaignMember, character *Character, userID uuid.UUID) bool {
	if membership == nil {
		return false
	}
	if membership.Role == RoleDM {
		return true
	}
	return character.OwnerID != nil && *character.OwnerID == userID
}
