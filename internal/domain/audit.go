package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditEntityType string

const (
	AuditEntityMap       AuditEntityType = "MAP"
	AuditEntityCharacter AuditEntityType = "CHARACTER"
)

// AuditLog is an append-only before/after record for DM-gated mutations.
// Snapshots are stored as opaque jsonb because entity shapes evolve.
type AuditLog struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CampaignID uuid.UUID       `json:"campaignId" gorm:"type:uuid;index;not null"`
	UserID     uuid.UUID       `json:"userId" gorm:"type:uuid;not null"`
	EntityType AuditEntityType `json:"entityType" gorm:"not null"`
	EntityID   uuid.UUID       `json:"entityId" gorm:"type:uuid;not null"`
	Action     string          `json:"action" gorm:"not null"`
	Before     datatypes.JSON  `json:"before" gorm:"type:jsonb"`
	After      datatypes.JSON  `json:"after" gorm:"type:jsonb"`
	CreatedAt  time.Time       `json:"createdAt"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
