package postgres

import (
	"context"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *auditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepository) GetByCampaignID(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]*domain.AuditLog, error) {
	var entries []*domain.AuditLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
