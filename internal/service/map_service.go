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

type MapService struct {
	mapRepo    repository.MapRepository
	presetRepo repository.TilePresetRepository
	access     *AccessService
	audit      *AuditService
}

func NewMapService(mapRepo repository.MapRepository, presetRepo repository.TilePresetRepository, access *AccessService, audit *AuditService) *MapService {
	return &MapService{
		mapRepo:    mapRepo,
		presetRepo: presetRepo,
		access:     access,
		audit:      audit,
	}
}

type CreateMapInput struct {
	Name       string
	ImageURL   *string
	TileGrid   domain.TileGrid
	TileCountX *int
	TileCountY *int
	TileSizeX  *int
	TileSizeY  *int
	OffsetX    *int
	OffsetY    *int
}

// Create is DM-only. A map needs an image or a tile grid; when no grid is
// supplied one is synthesized as all-null cells. The grid-dimension invariant
// is checked before anything is written.
func (s *MapService) Create(ctx context.Context, campaignID, userID uuid.UUID, input CreateMapInput) (*domain.GameMap, error) {
	if _, err := s.access.RequireDM(ctx, campaignID, userID); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "name",
			Message: "name is required",
		})
	}
	if input.ImageURL == nil && input.TileGrid == nil {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "imageUrl",
			Message: "either imageUrl or tileGrid is required",
		})
	}

	countX := domain.DefaultTileCount
	if input.TileCountX != nil {
		countX = *input.TileCountX
	}
	countY := domain.DefaultTileCount
	if input.TileCountY != nil {
		countY = *input.TileCountY
	}
	sizeX := domain.DefaultTileSize
	if input.TileSizeX != nil {
		sizeX = *input.TileSizeX
	}
	sizeY := domain.DefaultTileSize
	if input.TileSizeY != nil {
		sizeY = *input.TileSizeY
	}

	grid := input.TileGrid
	if grid == nil {
		grid = domain.EmptyTileGrid(countX, countY)
	}
	if violations := domain.ValidateTileGrid(grid, countX, countY); len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	m := &domain.GameMap{
		ID:         uuid.New(),
		CampaignID: campaignID,
		Name:       input.Name,
		ImageURL:   input.ImageURL,
		TileGrid:   grid.JSON(),
		TileCountX: countX,
		TileCountY: countY,
		TileSizeX:  sizeX,
		TileSizeY:  sizeY,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if input.OffsetX != nil {
		m.OffsetX = *input.OffsetX
	}
	if input.OffsetY != nil {
		m.OffsetY = *input.OffsetY
	}

	if err := s.mapRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, campaignID, userID, domain.AuditEntityMap, m.ID, "create", nil, m); err != nil {
		return nil, err
	}
	return m, nil
}

type UpdateMapInput struct {
	Name       *string
	ImageURL   *string
	TileGrid   domain.TileGrid
	TileCountX *int
	TileCountY *int
	TileSizeX  *int
	TileSizeY  *int
	OffsetX    *int
	OffsetY    *int
}

// Update is DM-only; omitted fields fall back to the stored values and the
// grid invariant is re-checked against the effective dimensions.
func (s *MapService) Update(ctx context.Context, mapID, userID uuid.UUID, input UpdateMapInput) (*domain.GameMap, error) {
	m, err := s.getMap(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireDM(ctx, m.CampaignID, userID); err != nil {
		return nil, err
	}

	before := *m

	if input.Name != nil {
		m.Name = *input.Name
	}
	if input.ImageURL != nil {
		m.ImageURL = input.ImageURL
	}
	if input.TileCountX != nil {
		m.TileCountX = *input.TileCountX
	}
	if input.TileCountY != nil {
		m.TileCountY = *input.TileCountY
	}
	if input.TileSizeX != nil {
		m.TileSizeX = *input.TileSizeX
	}
	if input.TileSizeY != nil {
		m.TileSizeY = *input.TileSizeY
	}
	if input.OffsetX != nil {
		m.OffsetX = *input.OffsetX
	}
	if input.OffsetY != nil {
		m.OffsetY = *input.OffsetY
	}

	grid := input.TileGrid
	if grid == nil {
		grid, err = domain.DecodeTileGrid(m.TileGrid)
		if err != nil {
			return nil, err
		}
	}
	if violations := domain.ValidateTileGrid(grid, m.TileCountX, m.TileCountY); len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}
	m.TileGrid = grid.JSON()
	m.UpdatedAt = time.Now()

	if err := s.mapRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, m.CampaignID, userID, domain.AuditEntityMap, m.ID, "update", &before, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MapService) Get(ctx context.Context, mapID, userID uuid.UUID) (*domain.GameMap, error) {
	m, err := s.getMap(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, m.CampaignID, userID); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MapService) ListByCampaign(ctx context.Context, campaignID, userID uuid.UUID) ([]*domain.GameMap, error) {
	if _, err := s.access.RequireMember(ctx, campaignID, userID); err != nil {
		return nil, err
	}
	return s.mapRepo.GetByCampaignID(ctx, campaignID)
}

func (s *MapService) Delete(ctx context.Context, mapID, userID uuid.UUID) error {
	m, err := s.getMap(ctx, mapID)
	if err != nil {
		return err
	}
	if _, err := s.access.RequireDM(ctx, m.CampaignID, userID); err != nil {
		return err
	}
	if err := s.mapRepo.Delete(ctx, mapID); err != nil {
		return err
	}
	return s.audit.Record(ctx, m.CampaignID, userID, domain.AuditEntityMap, m.ID, "delete", m, nil)
}

type CreatePresetInput struct {
	Name       string
	TileGrid   domain.TileGrid
	TileCountX int
	TileCountY int
}

// CreatePreset shares the map grid invariant and the tile-count ceiling.
func (s *MapService) CreatePreset(ctx context.Context, campaignID, userID uuid.UUID, input CreatePresetInput) (*domain.TilePreset, error) {
	if _, err := s.access.RequireDM(ctx, campaignID, userID); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "name",
			Message: "name is required",
		})
	}
	if input.TileCountX*input.TileCountY > domain.MaxTilesPerSet {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "tileCountX",
			Message: "tile count exceeds the maximum",
		})
	}
	if violations := domain.ValidateTileGrid(input.TileGrid, input.TileCountX, input.TileCountY); len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	preset := &domain.TilePreset{
		ID:         uuid.New(),
		CampaignID: campaignID,
		Name:       input.Name,
		TileGrid:   input.TileGrid.JSON(),
		TileCountX: input.TileCountX,
		TileCountY: input.TileCountY,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.presetRepo.Create(ctx, preset); err != nil {
		return nil, err
	}
	return preset, nil
}

type UpdatePresetInput struct {
	Name       *string
	TileGrid   domain.TileGrid
	TileCountX *int
	TileCountY *int
}

func (s *MapService) UpdatePreset(ctx context.Context, presetID, userID uuid.UUID, input UpdatePresetInput) (*domain.TilePreset, error) {
	preset, err := s.presetRepo.GetByID(ctx, presetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if _, err := s.access.RequireDM(ctx, preset.CampaignID, userID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		preset.Name = *input.Name
	}
	if input.TileCountX != nil {
		preset.TileCountX = *input.TileCountX
	}
	if input.TileCountY != nil {
		preset.TileCountY = *input.TileCountY
	}
	if preset.TileCountX*preset.TileCountY > domain.MaxTilesPerSet {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "tileCountX",
			Message: "tile count exceeds the maximum",
		})
	}

	grid := input.TileGrid
	if grid == nil {
		grid, err = domain.DecodeTileGrid(preset.TileGrid)
		if err != nil {
			return nil, err
		}
	}
	if violations := domain.ValidateTileGrid(grid, preset.TileCountX, preset.TileCountY); len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}
	preset.TileGrid = grid.JSON()
	preset.UpdatedAt = time.Now()

	if err := s.presetRepo.Update(ctx, preset); err != nil {
		return nil, err
	}
	return preset, nil
}

func (s *MapService) ListPresets(ctx context.Context, campaignID, userID uuid.UUID) ([]*domain.TilePreset, error) {
	if _, err := s.access.RequireMember(ctx, campaignID, userID); err != nil {
		return nil, err
	}
	return s.presetRepo.GetByCampaignID(ctx, campaignID)
}

func (s *MapService) getMap(ctx context.Context, mapID uuid.UUID) (*domain.GameMap, error) {
	m, err := s.mapRepo.GetByID(ctx, mapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}
