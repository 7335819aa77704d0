package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is a map-anchored marker. A character may have at most one token
// system-wide; the binding is re-validated on create and on rebind.
type Token struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MapID       uuid.UUID  `json:"mapId" gorm:"type:uuid;index;not null"`
	CharacterID *uuid.UUID `json:"characterId" gorm:"type:uuid;uniqueIndex"`
	Name        string     `json:"name"`
	ImageURL    *string    `json:"imageUrl"`
	X           int        `json:"x" gorm:"not null;default:0"`
	Y           int        `json:"y" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Relations
	Character *Character `json:"character,omitempty" gorm:"foreignKey:CharacterID"`
}
