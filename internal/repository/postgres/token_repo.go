package postgres

import (
	"context"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *tokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *domain.Token) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Token, error) {
	var token domain.Token
	err := r.db.WithContext(ctx).
		Preload("Character").
		First(&token, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) GetByMapID(ctx context.Context, mapID uuid.UUID) ([]*domain.Token, error) {
	var tokens []*domain.Token
	err := r.db.WithContext(ctx).
		Preload("Character").
		Where("map_id = ?", mapID).
		Order("created_at ASC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *tokenRepository) GetByCharacterID(ctx context.Context, characterID uuid.UUID) (*domain.Token, error) {
	var token domain.Token
	err := r.db.WithContext(ctx).
		First(&token, "character_id = ?", characterID).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) Update(ctx context.Context, token *domain.Token) error {
	return r.db.WithContext(ctx).Save(token).Error
}

func (r *tokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Token{}, "id = ?", id).Error
}
