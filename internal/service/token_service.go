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

type TokenService struct {
	tokenRepo     repository.TokenRepository
	mapRepo       repository.MapRepository
	characterRepo repository.CharacterRepository
	access        *AccessService
	broadcaster   Broadcaster
}

func NewTokenService(
	tokenRepo repository.TokenRepository,
	mapRepo repository.MapRepository,
	characterRepo repository.CharacterRepository,
	access *AccessService,
	broadcaster Broadcaster,
) *TokenService {
	return &TokenService{
		tokenRepo:     tokenRepo,
		mapRepo:       mapRepo,
		characterRepo: characterRepo,
		access:        access,
		broadcaster:   broadcaster,
	}
}

type CreateTokenInput struct {
	CharacterID *uuid.UUID
	Name        string
	ImageURL    *string
	X           int
	Y           int
}

// Create is DM-only. A bound character must belong to the map's campaign and
// may have at most one token anywhere.
func (s *TokenService) Create(ctx context.Context, mapID, userID uuid.UUID, input CreateTokenInput) (*domain.Token, error) {
	m, err := s.getMap(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireDM(ctx, m.CampaignID, userID); err != nil {
		return nil, err
	}

	if input.CharacterID != nil {
		if err := s.validateBinding(ctx, m, *input.CharacterID); err != nil {
			return nil, err
		}
	}

	token := &domain.Token{
		ID:          uuid.New(),
		MapID:       mapID,
		CharacterID: input.CharacterID,
		Name:        input.Name,
		ImageURL:    input.ImageURL,
		X:           input.X,
		Y:           input.Y,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToMap(mapID, EventTokenCreated, token)
	return token, nil
}

type UpdateTokenInput struct {
	CharacterID    *uuid.UUID
	ClearCharacter bool
	Name           *string
	ImageURL       *string
	X              *int
	Y              *int
}

// Update is DM-only; rebinding to another character re-validates the
// same-campaign and one-token rules.
func (s *TokenService) Update(ctx context.Context, tokenID, userID uuid.UUID, input UpdateTokenInput) (*domain.Token, error) {
	token, m, err := s.getTokenWithMap(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireDM(ctx, m.CampaignID, userID); err != nil {
		return nil, err
	}

	if input.ClearCharacter {
		token.CharacterID = nil
	} else if input.CharacterID != nil && derefUUID(token.CharacterID) != *input.CharacterID {
		if err := s.validateBinding(ctx, m, *input.CharacterID); err != nil {
			return nil, err
		}
		token.CharacterID = input.CharacterID
	}

	if input.Name != nil {
		token.Name = *input.Name
	}
	if input.ImageURL != nil {
		token.ImageURL = input.ImageURL
	}
	if input.X != nil {
		token.X = *input.X
	}
	if input.Y != nil {
		token.Y = *input.Y
	}
	token.UpdatedAt = time.Now()

	if err := s.tokenRepo.Update(ctx, token); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToMap(token.MapID, EventTokenUpdated, token)
	return token, nil
}

// Move sets a token's grid position. It backs both the REST path and the
// realtime path; both require the DM role.
func (s *TokenService) Move(ctx context.Context, tokenID, userID uuid.UUID, x, y int) (*domain.Token, error) {
	token, m, err := s.getTokenWithMap(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireDM(ctx, m.CampaignID, userID); err != nil {
		return nil, err
	}

	token.X = x
	token.Y = y
	token.UpdatedAt = time.Now()
	if err := s.tokenRepo.Update(ctx, token); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToMap(token.MapID, EventTokenMoved, token)
	return token, nil
}

func (s *TokenService) Delete(ctx context.Context, tokenID, userID uuid.UUID) error {
	token, m, err := s.getTokenWithMap(ctx, tokenID)
	if err != nil {
		return err
	}
	if _, err := s.access.RequireDM(ctx, m.CampaignID, userID); err != nil {
		return err
	}
	if err := s.tokenRepo.Delete(ctx, tokenID); err != nil {
		return err
	}
	s.broadcaster.BroadcastToMap(token.MapID, EventTokenDeleted, map[string]string{"id": token.ID.String()})
	return nil
}

func (s *TokenService) ListByMap(ctx context.Context, mapID, userID uuid.UUID) ([]*domain.Token, error) {
	m, err := s.getMap(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, m.CampaignID, userID); err != nil {
		return nil, err
	}
	return s.tokenRepo.GetByMapID(ctx, mapID)
}

func (s *TokenService) validateBinding(ctx context.Context, m *domain.GameMap, characterID uuid.UUID) error {
	character, err := s.characterRepo.GetByID(ctx, characterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if character.CampaignID != m.CampaignID {
		return domain.NewValidationError(domain.FieldViolation{
			Field:   "characterId",
			Message: "character belongs to a different campaign",
		})
	}
	if _, err := s.tokenRepo.GetByCharacterID(ctx, characterID); err == nil {
		return domain.ErrTokenExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *TokenService) getMap(ctx context.Context, mapID uuid.UUID) (*domain.GameMap, error) {
	m, err := s.mapRepo.GetByID(ctx, mapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *TokenService) getTokenWithMap(ctx context.Context, tokenID uuid.UUID) (*domain.Token, *domain.GameMap, error) {
	token, err := s.tokenRepo.GetByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	m, err := s.getMap(ctx, token.MapID)
	if err != nil {
		return nil, nil, err
	}
	return token, m, nil
}
