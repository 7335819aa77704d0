package service

import (
	"context"
	"errors"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessService is the authorization gate. Every campaign-scoped operation
// resolves the caller's membership here before touching state; non-members
// always see Forbidden, never NotFound, so entity ids cannot be probed across
// campaigns.
type AccessService struct {
	campaignRepo repository.CampaignRepository
}

func NewAccessService(campaignRepo repository.CampaignRepository) *AccessService {
	return &AccessService{campaignRepo: campaignRepo}
}

// RequireMember returns the caller's membership for the campaign or
// ErrForbidden.
func (s *AccessService) RequireMember(ctx context.Context, campaignID, userID uuid.UUID) (*domain.CampaignMember, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	member, err := s.campaignRepo.GetMember(ctx, campaignID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	return member, nil
}

// RequireDM is RequireMember plus the DM role check.
func (s *AccessService) RequireDM(ctx context.Context, campaignID, userID uuid.UUID) (*domain.CampaignMember, error) {
	member, err := s.RequireMember(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}
	if member.Role != domain.RoleDM {
		return nil, domain.ErrForbidden
	}
	return member, nil
}
