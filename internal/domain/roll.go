package domain

import (
	"time"

	"github.com/google/uuid"
)

type RollType string

const (
	RollTypeRegular RollType = "REGULAR"
	RollTypeCombat  RollType = "COMBAT"
)

// MapRollLog is an append-only record of a dice roll on a map. REGULAR rolls
// carry a single d100; COMBAT rolls keep both raw d100 values and the rounded
// mean as the result.
type MapRollLog struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MapID     uuid.UUID `json:"mapId" gorm:"type:uuid;index;not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	Type      RollType  `json:"type" gorm:"not null;default:'REGULAR'"`
	Roll1     int       `json:"roll1" gorm:"not null"`
	Roll2     *int      `json:"roll2"`
	Result    int       `json:"result" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// CombatResult is the rounded arithmetic mean of two d100 draws,
// round-half-up.
func CombatResult(a, b int) int {
	return (a + b + 1) / 2
}
