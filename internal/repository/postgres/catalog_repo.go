package postgres

import (
	"context"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *itemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetByName(ctx context.Context, name string) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).First(&item, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetAll(ctx context.Context) ([]*domain.Item, error) {
	var items []*domain.Item
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) UpsertMany(ctx context.Context, items []*domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"category", "might", "hit", "crit", "weight", "range", "rank",
				"default_uses", "class_restriction", "description", "updated_at",
			}),
		}).
		Create(items).Error
}

type gameClassRepository struct {
	db *gorm.DB
}

func NewGameClassRepository(db *gorm.DB) *gameClassRepository {
	return &gameClassRepository{db: db}
}

func (r *gameClassRepository) GetByName(ctx context.Context, name string) (*domain.GameClass, error) {
	var class domain.GameClass
	err := r.db.WithContext(ctx).First(&class, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *gameClassRepository) GetAll(ctx context.Context) ([]*domain.GameClass, error) {
	var classes []*domain.GameClass
	err := r.db.WithContext(ctx).Order("name ASC").Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *gameClassRepository) UpsertMany(ctx context.Context, classes []*domain.GameClass) error {
	if len(classes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"base_stats", "growth_rates", "max_stats", "weapon_ranks",
				"promotions", "skill_names", "updated_at",
			}),
		}).
		Create(classes).Error
}

type skillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *skillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) GetByNames(ctx context.Context, names []string) ([]*domain.Skill, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var skills []*domain.Skill
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&skills).Error
	if err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *skillRepository) GetAll(ctx context.Context) ([]*domain.Skill, error) {
	var skills []*domain.Skill
	err := r.db.WithContext(ctx).Order("name ASC").Find(&skills).Error
	if err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *skillRepository) UpsertMany(ctx context.Context, skills []*domain.Skill) error {
	if len(skills) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
		}).
		Create(skills).Error
}
