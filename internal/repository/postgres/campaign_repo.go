package postgres

import (
	"context"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type campaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *campaignRepository {
	return &campaignRepository{db: db}
}

// CreateWithOwner creates the campaign and the creator's DM membership in one
// transaction so no campaign ever exists without an owning DM.
func (r *campaignRepository) CreateWithOwner(ctx context.Context, campaign *domain.Campaign, owner *domain.CampaignMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(campaign).Error; err != nil {
			return err
		}
		owner.CampaignID = campaign.ID
		return tx.Create(owner).Error
	})
}

func (r *campaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	var campaign domain.Campaign
	err := r.db.WithContext(ctx).
		Preload("Creator").
		First(&campaign, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Campaign, error) {
	var campaigns []*domain.Campaign
	err := r.db.WithContext(ctx).
		Joins("JOIN campaign_members ON campaign_members.campaign_id = campaigns.id").
		Where("campaign_members.user_id = ?", userID).
		Order("campaigns.created_at DESC").
		Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *campaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}

func (r *campaignRepository) GetMember(ctx context.Context, campaignID, userID uuid.UUID) (*domain.CampaignMember, error) {
	var member domain.CampaignMember
	err := r.db.WithContext(ctx).
		First(&member, "campaign_id = ? AND user_id = ?", campaignID, userID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *campaignRepository) GetMembers(ctx context.Context, campaignID uuid.UUID) ([]*domain.CampaignMember, error) {
	var members []*domain.CampaignMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("campaign_id = ?", campaignID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// UpsertMember inserts the membership or, when the (campaign, user) pair
// already exists, updates its role. Last write wins.
func (r *campaignRepository) UpsertMember(ctx context.Context, member *domain.CampaignMember) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
		}).
		Create(member).Error
}
