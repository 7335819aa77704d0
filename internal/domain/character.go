package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CharacterKind string

const (
	KindPlayer CharacterKind = "PLAYER"
	KindNPC    CharacterKind = "NPC"
	KindEnemy  CharacterKind = "ENEMY"
)

// MaxInventorySize caps the number of inventory rows a character may hold.
const MaxInventorySize = 8

type Character struct {
	ID                   uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CampaignID           uuid.UUID      `json:"campaignId" gorm:"type:uuid;index;not null"`
	Name                 string         `json:"name" gorm:"not null"`
	Kind                 CharacterKind  `json:"kind" gorm:"not null;default:'PLAYER'"`
	OwnerID              *uuid.UUID     `json:"ownerId" gorm:"type:uuid"`
	ClassName            *string        `json:"className"`
	Level                int            `json:"level" gorm:"not null;default:1"`
	Exp                  int            `json:"exp" gorm:"not null;default:0"`
	CurrentHP            int            `json:"currentHp" gorm:"not null;default:0"`
	Stats                datatypes.JSON `json:"stats" gorm:"type:jsonb;default:'{}'"`
	WeaponSkills         datatypes.JSON `json:"weaponSkills" gorm:"type:jsonb;default:'[]'"`
	EquippedWeaponItemID *uuid.UUID     `json:"equippedWeaponItemId" gorm:"type:uuid"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`

	// Relations
	Campaign *Campaign        `json:"campaign,omitempty" gorm:"foreignKey:CampaignID"`
	Owner    *User            `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Items    []CharacterItem  `json:"items,omitempty" gorm:"foreignKey:CharacterID"`
	Skills   []CharacterSkill `json:"skills,omitempty" gorm:"foreignKey:CharacterID"`
}

// CharacterItem is one inventory row. SortOrder defines display and equip
// order; rows form a dense 0..N-1 sequence immediately after a reorder.
type CharacterItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CharacterID uuid.UUID `json:"characterId" gorm:"type:uuid;index;not null"`
	ItemID      uuid.UUID `json:"itemId" gorm:"type:uuid;not null"`
	SortOrder   int       `json:"sortOrder" gorm:"not null;default:0"`
	Uses        *int      `json:"uses"`
	Blessed     bool      `json:"blessed" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Item *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

type CharacterSkill struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CharacterID uuid.UUID `json:"characterId" gorm:"type:uuid;not null;uniqueIndex:idx_character_skill"`
	SkillID     uuid.UUID `json:"skillId" gorm:"type:uuid;not null;uniqueIndex:idx_character_skill"`
	CreatedAt   time.Time `json:"createdAt"`

	// Relations
	Skill *Skill `json:"skill,omitempty" gorm:"foreignKey:SkillID"`
}

// WeaponSkill is one entry of a character's weaponSkills JSON list.
type WeaponSkill struct {
	Weapon string `json:"weapon"`
	Rank   string `json:"rank"`
}
