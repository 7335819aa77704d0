package postgres

import (
	"context"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tileSetRepository struct {
	db *gorm.DB
}

func NewTileSetRepository(db *gorm.DB) *tileSetRepository {
	return &tileSetRepository{db: db}
}

// CreateWithTiles persists the tileset and all its tiles in one transaction;
// a failed tile insert rolls back the whole set.
func (r *tileSetRepository) CreateWithTiles(ctx context.Context, set *domain.TileSet, tiles []*domain.Tile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(set).Error; err != nil {
			return err
		}
		for _, tile := range tiles {
			tile.TileSetID = set.ID
		}
		if len(tiles) == 0 {
			return nil
		}
		return tx.CreateInBatches(tiles, 256).Error
	})
}

func (r *tileSetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TileSet, error) {
	var set domain.TileSet
	err := r.db.WithContext(ctx).
		Preload("Tiles", func(db *gorm.DB) *gorm.DB {
			return db.Order("tiles.index ASC")
		}).
		First(&set, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *tileSetRepository) GetByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*domain.TileSet, error) {
	var sets []*domain.TileSet
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&sets).Error
	if err != nil {
		return nil, err
	}
	return sets, nil
}
