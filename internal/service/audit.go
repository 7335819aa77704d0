package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditService struct {
	auditRepo repository.AuditLogRepository
	access    *AccessService
}

func NewAuditService(auditRepo repository.AuditLogRepository, access *AccessService) *AuditService {
	return &AuditService{auditRepo: auditRepo, access: access}
}

// Record appends one before/after entry. Snapshots are serialized as opaque
// json so entity shapes can evolve without schema churn.
func (s *AuditService) Record(ctx context.Context, campaignID, userID uuid.UUID, entityType domain.AuditEntityType, entityID uuid.UUID, action string, before, after interface{}) error {
	entry := &domain.AuditLog{
		ID:         uuid.New(),
		CampaignID: campaignID,
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Before:     marshalSnapshot(before),
		After:      marshalSnapshot(after),
		CreatedAt:  time.Now(),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("ERROR [audit.Record] failed to write audit entry %s/%s: %v", entityType, action, err)
		return err
	}
	return nil
}

// List is DM-only, scoped to the campaign, reverse-chronological.
func (s *AuditService) List(ctx context.Context, campaignID, userID uuid.UUID, limit, offset int) ([]*domain.AuditLog, error) {
	if _, err := s.access.RequireDM(ctx, campaignID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.auditRepo.GetByCampaignID(ctx, campaignID, limit, offset)
}

func marshalSnapshot(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
