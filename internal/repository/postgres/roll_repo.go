package postgres

import (
	"context"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type rollLogRepository struct {
	db *gorm.DB
}

func NewRollLogRepository(db *gorm.DB) *rollLogRepository {
	return &rollLogRepository{db: db}
}

func (r *rollLogRepository) Create(ctx context.Context, roll *domain.MapRollLog) error {
	return r.db.WithContext(ctx).Create(roll).Error
}

func (r *rollLogRepository) GetByMapID(ctx context.Context, mapID uuid.UUID, limit, offset int) ([]*domain.MapRollLog, error) {
	var rolls []*domain.MapRollLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("map_id = ?", mapID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rolls).Error
	if err != nil {
		return nil, err
	}
	return rolls, nil
}
