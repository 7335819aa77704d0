package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/imaging"
	"github.com/dom/emblem-vtt/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TileSetService struct {
	tileSetRepo repository.TileSetRepository
	access      *AccessService
	transform   imaging.Transformer
	blobs       imaging.BlobStore
}

func NewTileSetService(tileSetRepo repository.TileSetRepository, access *AccessService, transform imaging.Transformer, blobs imaging.BlobStore) *TileSetService {
	return &TileSetService{
		tileSetRepo: tileSetRepo,
		access:      access,
		transform:   transform,
		blobs:       blobs,
	}
}

type UploadTileSetInput struct {
	Name      string
	Columns   int
	Rows      int
	TileSizeX int
	TileSizeY int
	Image     []byte
}

// Upload is DM-only. The tile-count ceiling is checked before any image
// processing; the image's pixel dimensions must exactly match
// columns*tileSizeX by rows*tileSizeY or nothing is written. On success the
// image is sliced row-major and the tileset plus every tile persist as one
// unit.
func (s *TileSetService) Upload(ctx context.Context, campaignID, userID uuid.UUID, input UploadTileSetInput) (*domain.TileSet, error) {
	if _, err := s.access.RequireDM(ctx, campaignID, userID); err != nil {
		return nil, err
	}

	var violations []domain.FieldViolation
	if input.Name == "" {
		violations = append(violations, domain.FieldViolation{Field: "name", Message: "name is required"})
	}
	if input.Columns <= 0 || input.Rows <= 0 {
		violations = append(violations, domain.FieldViolation{Field: "columns", Message: "columns and rows must be positive"})
	}
	if input.TileSizeX <= 0 || input.TileSizeY <= 0 {
		violations = append(violations, domain.FieldViolation{Field: "tileSizeX", Message: "tile sizes must be positive"})
	}
	if len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}
	if input.Columns*input.Rows > domain.MaxTilesPerSet {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "columns",
			Message: fmt.Sprintf("tile count exceeds the maximum of %d", domain.MaxTilesPerSet),
		})
	}

	width, height, err := s.transform.Dimensions(input.Image)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "image",
			Message: "image could not be decoded",
		})
	}
	if width != input.Columns*input.TileSizeX || height != input.Rows*input.TileSizeY {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "image",
			Message: fmt.Sprintf("image dimensions %dx%d do not match %dx%d", width, height, input.Columns*input.TileSizeX, input.Rows*input.TileSizeY),
		})
	}

	sourceRef, err := s.blobs.Put(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	set := &domain.TileSet{
		ID:         uuid.New(),
		CampaignID: campaignID,
		Name:       input.Name,
		Columns:    input.Columns,
		Rows:       input.Rows,
		TileSizeX:  input.TileSizeX,
		TileSizeY:  input.TileSizeY,
		ImageRef:   sourceRef,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	tiles := make([]*domain.Tile, 0, input.Columns*input.Rows)
	for row := 0; row < input.Rows; row++ {
		for col := 0; col < input.Columns; col++ {
			cropped, err := s.transform.Crop(input.Image, col*input.TileSizeX, row*input.TileSizeY, input.TileSizeX, input.TileSizeY)
			if err != nil {
				return nil, err
			}
			ref, err := s.blobs.Put(ctx, cropped)
			if err != nil {
				return nil, err
			}
			tiles = append(tiles, &domain.Tile{
				ID:        uuid.New(),
				Index:     row*input.Columns + col,
				ImageRef:  ref,
				CreatedAt: time.Now(),
			})
		}
	}

	if err := s.tileSetRepo.CreateWithTiles(ctx, set, tiles); err != nil {
		return nil, err
	}
	return s.tileSetRepo.GetByID(ctx, set.ID)
}

func (s *TileSetService) Get(ctx context.Context, tileSetID, userID uuid.UUID) (*domain.TileSet, error) {
	set, err := s.tileSetRepo.GetByID(ctx, tileSetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, set.CampaignID, userID); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *TileSetService) ListByCampaign(ctx context.Context, campaignID, userID uuid.UUID) ([]*domain.TileSet, error) {
	if _, err := s.access.RequireMember(ctx, campaignID, userID); err != nil {
		return nil, err
	}
	return s.tileSetRepo.GetByCampaignID(ctx, campaignID)
}
