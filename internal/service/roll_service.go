package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RollService struct {
	rollRepo    repository.RollLogRepository
	mapRepo     repository.MapRepository
	access      *AccessService
	broadcaster Broadcaster
	d100        func() int
}

func NewRollService(rollRepo repository.RollLogRepository, mapRepo repository.MapRepository, access *AccessService, broadcaster Broadcaster) *RollService {
	return &RollService{
		rollRepo:    rollRepo,
		mapRepo:     mapRepo,
		access:      access,
		broadcaster: broadcaster,
		d100: func() int {
			return rand.Intn(100) + 1
		},
	}
}

// Roll creates a roll log for the map. Any campaign member may roll. REGULAR
// is one d100; COMBAT draws two and stores their rounded mean as the result.
func (s *RollService) Roll(ctx context.Context, mapID, userID uuid.UUID, rollType domain.RollType) (*domain.MapRollLog, error) {
	m, err := s.mapRepo.GetByID(ctx, mapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, m.CampaignID, userID); err != nil {
		return nil, err
	}

	roll := &domain.MapRollLog{
		ID:        uuid.New(),
		MapID:     mapID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	switch rollType {
	case domain.RollTypeCombat:
		a, b := s.d100(), s.d100()
		roll.Type = domain.RollTypeCombat
		roll.Roll1 = a
		roll.Roll2 = &b
		roll.Result = domain.CombatResult(a, b)
	case domain.RollTypeRegular, "":
		roll.Type = domain.RollTypeRegular
		roll.Roll1 = s.d100()
		roll.Result = roll.Roll1
	default:
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "type",
			Message: "type must be REGULAR or COMBAT",
		})
	}

	if err := s.rollRepo.Create(ctx, roll); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToMap(mapID, EventRollCreated, roll)
	return roll, nil
}

func (s *RollService) ListByMap(ctx context.Context, mapID, userID uuid.UUID, limit, offset int) ([]*domain.MapRollLog, error) {
	m, err := s.mapRepo.GetByID(ctx, mapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, m.CampaignID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.rollRepo.GetByMapID(ctx, mapID, limit, offset)
}
