package postgres

import (
	"context"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type mapRepository struct {
	db *gorm.DB
}

func NewMapRepository(db *gorm.DB) *mapRepository {
	return &mapRepository{db: db}
}

func (r *mapRepository) Create(ctx context.Context, m *domain.GameMap) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *mapRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GameMap, error) {
	var m domain.GameMap
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mapRepository) GetByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*domain.GameMap, error) {
	var maps []*domain.GameMap
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&maps).Error
	if err != nil {
		return nil, err
	}
	return maps, nil
}

func (r *mapRepository) Update(ctx context.Context, m *domain.GameMap) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *mapRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.GameMap{}, "id = ?", id).Error
}

type tilePresetRepository struct {
	db *gorm.DB
}

func NewTilePresetRepository(db *gorm.DB) *tilePresetRepository {
	return &tilePresetRepository{db: db}
}

func (r *tilePresetRepository) Create(ctx context.Context, preset *domain.TilePreset) error {
	return r.db.WithContext(ctx).Create(preset).Error
}

func (r *tilePresetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TilePreset, error) {
	var preset domain.TilePreset
	err := r.db.WithContext(ctx).First(&preset, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &preset, nil
}

func (r *tilePresetRepository) GetByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*domain.TilePreset, error) {
	var presets []*domain.TilePreset
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("name ASC").
		Find(&presets).Error
	if err != nil {
		return nil, err
	}
	return presets, nil
}

func (r *tilePresetRepository) Update(ctx context.Context, preset *domain.TilePreset) error {
	return r.db.WithContext(ctx).Save(preset).Error
}
