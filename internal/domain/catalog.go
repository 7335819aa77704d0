package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ItemCategory string

const (
	CategoryWeapon ItemCategory = "WEAPON"
	CategoryItem   ItemCategory = "ITEM"
)

// LaguzRestriction marks weapons equippable only by characters whose class
// matches the restriction (DMs bypass the check).
const LaguzRestriction = "laguz"

type Item struct {
	ID               uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name             string       `json:"name" gorm:"uniqueIndex;not null"`
	Category         ItemCategory `json:"category" gorm:"not null;default:'ITEM'"`
	Might            *int         `json:"might"`
	Hit              *int         `json:"hit"`
	Crit             *int         `json:"crit"`
	Weight           *int         `json:"weight"`
	Range            *string      `json:"range"`
	Rank             *string      `json:"rank"`
	DefaultUses      *int         `json:"defaultUses"`
	ClassRestriction *string      `json:"classRestriction"`
	Description      string       `json:"description"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

func (i *Item) IsWeapon() bool {
	return i.Category == CategoryWeapon
}

type GameClass struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string         `json:"name" gorm:"uniqueIndex;not null"`
	BaseStats   datatypes.JSON `json:"baseStats" gorm:"type:jsonb;default:'{}'"`
	GrowthRates datatypes.JSON `json:"growthRates" gorm:"type:jsonb;default:'{}'"`
	MaxStats    datatypes.JSON `json:"maxStats" gorm:"type:jsonb;default:'{}'"`
	WeaponRanks datatypes.JSON `json:"weaponRanks" gorm:"type:jsonb;default:'{}'"`
	Promotions  datatypes.JSON `json:"promotions" gorm:"type:jsonb;default:'[]'"`
	SkillNames  datatypes.JSON `json:"skillNames" gorm:"type:jsonb;default:'[]'"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type Skill struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
