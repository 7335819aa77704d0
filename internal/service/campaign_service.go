package service

import (
	"context"
	"errors"
	"time"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CampaignService struct {
	campaignRepo repository.CampaignRepository
	userRepo     repository.UserRepository
	access       *AccessService
}

func NewCampaignService(campaignRepo repository.CampaignRepository, userRepo repository.UserRepository, access *AccessService) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		userRepo:     userRepo,
		access:       access,
	}
}

type CreateCampaignInput struct {
	Name        string
	Description string
}

// Create makes the caller the sole member with role DM, atomically with the
// campaign row.
func (s *CampaignService) Create(ctx context.Context, userID uuid.UUID, input CreateCampaignInput) (*domain.Campaign, error) {
	if input.Name == "" {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "name",
			Message: "name is required",
		})
	}

	campaign := &domain.Campaign{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	owner := &domain.CampaignMember{
		ID:     uuid.New(),
		UserID: userID,
		Role:   domain.RoleDM,
	}

	if err := s.campaignRepo.CreateWithOwner(ctx, campaign, owner); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *CampaignService) Get(ctx context.Context, campaignID, userID uuid.UUID) (*domain.Campaign, error) {
	if _, err := s.access.RequireMember(ctx, campaignID, userID); err != nil {
		return nil, err
	}
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return campaign, nil
}

func (s *CampaignService) ListMine(ctx context.Context, userID uuid.UUID) ([]*domain.Campaign, error) {
	return s.campaignRepo.GetByUserID(ctx, userID)
}

func (s *CampaignService) GetMembers(ctx context.Context, campaignID, userID uuid.UUID) ([]*domain.CampaignMember, error) {
	if _, err := s.access.RequireMember(ctx, campaignID, userID); err != nil {
		return nil, err
	}
	return s.campaignRepo.GetMembers(ctx, campaignID)
}

type UpsertMemberInput struct {
	Email string
	Role  domain.CampaignRole
}

// UpsertMember adds an existing user (resolved by email) to the campaign or
// changes their role. DM-only; the target must already be registered.
func (s *CampaignService) UpsertMember(ctx context.Context, campaignID, userID uuid.UUID, input UpsertMemberInput) (*domain.CampaignMember, error) {
	if _, err := s.access.RequireDM(ctx, campaignID, userID); err != nil {
		return nil, err
	}

	if input.Role != domain.RoleDM && input.Role != domain.RolePlayer {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "role",
			Message: "role must be DM or PLAYER",
		})
	}

	target, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	member := &domain.CampaignMember{
		ID:         uuid.New(),
		CampaignID: campaignID,
		UserID:     target.ID,
		Role:       input.Role,
	}
	if err := s.campaignRepo.UpsertMember(ctx, member); err != nil {
		return nil, err
	}
	return s.campaignRepo.GetMember(ctx, campaignID, target.ID)
}
