package domain

import (
	"time"

	"github.com/google/uuid"
)

type CampaignRole string

const (
	RoleDM     CampaignRole = "DM"
	RolePlayer CampaignRole = "PLAYER"
)

type Campaign struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	CreatedBy   uuid.UUID `json:"createdBy" gorm:"type:uuid;not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Creator *User            `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Members []CampaignMember `json:"members,omitempty" gorm:"foreignKey:CampaignID"`
}

// CampaignMember is the single source of truth for campaign privilege:
// no row means no access, the role decides DM vs player rights.
type CampaignMember struct {
	ID         uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CampaignID uuid.UUID    `json:"campaignId" gorm:"type:uuid;not null;uniqueIndex:idx_campaign_user"`
	UserID     uuid.UUID    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_campaign_user"`
	Role       CampaignRole `json:"role" gorm:"not null;default:'PLAYER'"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (m *CampaignMember) IsDM() bool {
	return m != nil && m.Role == RoleDM
}
