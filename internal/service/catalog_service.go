package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/repository"
	"github.com/google/uuid"
)

// CatalogService serves the shared game catalog of items, classes, and
// skills, and imports catalog data from json documents. The catalog is
// global; reads only require an authenticated user.
type CatalogService struct {
	itemRepo  repository.ItemRepository
	classRepo repository.GameClassRepository
	skillRepo repository.SkillRepository
}

func NewCatalogService(itemRepo repository.ItemRepository, classRepo repository.GameClassRepository, skillRepo repository.SkillRepository) *CatalogService {
	return &CatalogService{
		itemRepo:  itemRepo,
		classRepo: classRepo,
		skillRepo: skillRepo,
	}
}

func (s *CatalogService) ListItems(ctx context.Context, userID uuid.UUID) ([]*domain.Item, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.itemRepo.GetAll(ctx)
}

func (s *CatalogService) ListClasses(ctx context.Context, userID uuid.UUID) ([]*domain.GameClass, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.classRepo.GetAll(ctx)
}

func (s *CatalogService) ListSkills(ctx context.Context, userID uuid.UUID) ([]*domain.Skill, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.skillRepo.GetAll(ctx)
}

// SeedDocument is the import format. Each section is optional; entries are
// keyed by name so re-importing the same document is a no-op.
type SeedDocument struct {
	Items   []*domain.Item      `json:"items"`
	Classes []*domain.GameClass `json:"classes"`
	Skills  []*domain.Skill     `json:"skills"`
}

// Import upserts catalog rows by name. It runs at startup from a bundled
// document and is safe to call repeatedly.
func (s *CatalogService) Import(ctx context.Context, doc *SeedDocument) error {
	now := time.Now()
	for _, item := range doc.Items {
		if item.Name == "" {
			return domain.NewValidationError(domain.FieldViolation{
				Field:   "items",
				Message: "every item needs a name",
			})
		}
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.CreatedAt = now
		item.UpdatedAt = now
	}
	for _, class := range doc.Classes {
		if class.Name == "" {
			return domain.NewValidationError(domain.FieldViolation{
				Field:   "classes",
				Message: "every class needs a name",
			})
		}
		if class.ID == uuid.Nil {
			class.ID = uuid.New()
		}
		class.CreatedAt = now
		class.UpdatedAt = now
	}
	for _, skill := range doc.Skills {
		if skill.Name == "" {
			return domain.NewValidationError(domain.FieldViolation{
				Field:   "skills",
				Message: "every skill needs a name",
			})
		}
		if skill.ID == uuid.Nil {
			skill.ID = uuid.New()
		}
		skill.CreatedAt = now
		skill.UpdatedAt = now
	}

	if len(doc.Skills) > 0 {
		if err := s.skillRepo.UpsertMany(ctx, doc.Skills); err != nil {
			return fmt.Errorf("seeding skills: %w", err)
		}
	}
	if len(doc.Classes) > 0 {
		if err := s.classRepo.UpsertMany(ctx, doc.Classes); err != nil {
			return fmt.Errorf("seeding classes: %w", err)
		}
	}
	if len(doc.Items) > 0 {
		if err := s.itemRepo.UpsertMany(ctx, doc.Items); err != nil {
			return fmt.Errorf("seeding items: %w", err)
		}
	}

	log.Printf("INFO [catalog.Import] seeded %d items, %d classes, %d skills", len(doc.Items), len(doc.Classes), len(doc.Skills))
	return nil
}

// ImportJSON decodes a seed document and imports it.
func (s *CatalogService) ImportJSON(ctx context.Context, data []byte) error {
	var doc SeedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.NewValidationError(domain.FieldViolation{
			Field:   "document",
			Message: "seed document is not valid json",
		})
	}
	return s.Import(ctx, &doc)
}
