package postgres

import (
	"context"
	"fmt"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type characterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) *characterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) Create(ctx context.Context, character *domain.Character) error {
	return r.db.WithContext(ctx).Create(character).Error
}

func (r *characterRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Character, error) {
	var character domain.Character
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("character_items.sort_order ASC")
		}).
		Preload("Items.Item").
		Preload("Skills.Skill").
		First(&character, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &character, nil
}

func (r *characterRepository) GetByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*domain.Character, error) {
	var characters []*domain.Character
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("character_items.sort_order ASC")
		}).
		Preload("Items.Item").
		Where("campaign_id = ?", campaignID).
		Order("name ASC").
		Find(&characters).Error
	if err != nil {
		return nil, err
	}
	return characters, nil
}

func (r *characterRepository) Update(ctx context.Context, character *domain.Character) error {
	return r.db.WithContext(ctx).Save(character).Error
}

func (r *characterRepository) GetItems(ctx context.Context, characterID uuid.UUID) ([]*domain.CharacterItem, error) {
	var items []*domain.CharacterItem
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("character_id = ?", characterID).
		Order("sort_order ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *characterRepository) GetItem(ctx context.Context, id uuid.UUID) (*domain.CharacterItem, error) {
	var item domain.CharacterItem
	err := r.db.WithContext(ctx).
		Preload("Item").
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *characterRepository) CreateItem(ctx context.Context, item *domain.CharacterItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *characterRepository) UpdateItem(ctx context.Context, item *domain.CharacterItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *characterRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.CharacterItem{}, "id = ?", id).Error
}

// ReorderItems sets each row's sortOrder to its index in orderedIDs inside a
// single transaction. A row that no longer belongs to the character aborts
// the whole rewrite.
func (r *characterRepository) ReorderItems(ctx context.Context, characterID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			result := tx.Model(&domain.CharacterItem{}).
				Where("id = ? AND character_id = ?", id, characterID).
				Update("sort_order", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("inventory row %s not found for character %s: %w", id, characterID, gorm.ErrRecordNotFound)
			}
		}
		return nil
	})
}

func (r *characterRepository) GetSkills(ctx context.Context, characterID uuid.UUID) ([]*domain.CharacterSkill, error) {
	var skills []*domain.CharacterSkill
	err := r.db.WithContext(ctx).
		Preload("Skill").
		Where("character_id = ?", characterID).
		Find(&skills).Error
	if err != nil {
		return nil, err
	}
	return skills, nil
}

// AddSkills inserts skill links, ignoring rows whose (character, skill) pair
// already exists.
func (r *characterRepository) AddSkills(ctx context.Context, links []*domain.CharacterSkill) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "character_id"}, {Name: "skill_id"}},
			DoNothing: true,
		}).
		Create(links).Error
}
