package repository

import (
	"context"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type CampaignRepository interface {
	// CreateWithOwner creates the campaign and its owning DM membership in a
	// single transaction.
	CreateWithOwner(ctx context.Context, campaign *domain.Campaign, owner *domain.CampaignMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Campaign, error)
	Update(ctx context.Context, campaign *domain.Campaign) error
	GetMember(ctx context.Context, campaignID, userID uuid.UUID) (*domain.CampaignMember, error)
	GetMembers(ctx context.Context, campaignID uuid.UUID) ([]*domain.CampaignMember, error)
	UpsertMember(ctx context.Context, member *domain.CampaignMember) error
}

type CharacterRepository interface {
	Create(ctx context.Context, character *domain.Character) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Character, error)
	GetByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*domain.Character, error)
	Update(ctx context.Context, character *domain.Character) error

	GetItems(ctx context.Context, characterID uuid.UUID) ([]*domain.CharacterItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*domain.CharacterItem, error)
	CreateItem(ctx context.Context, item *domain.CharacterItem) error
	UpdateItem(ctx context.Context, item *domain.CharacterItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	// ReorderItems rewrites every row's sortOrder to its index position in
	// orderedIDs, all-or-nothing.
	ReorderItems(ctx context.Context, characterID uuid.UUID, orderedIDs []uuid.UUID) error

	GetSkills(ctx context.Context, characterID uuid.UUID) ([]*domain.CharacterSkill, error)
	// AddSkills bulk-inserts skill links, silently skipping rows that already
	// exist.
	AddSkills(ctx context.Context, links []*domain.CharacterSkill) error
}

type ItemRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	GetByName(ctx context.Context, name string) (*domain.Item, error)
	GetAll(ctx context.Context) ([]*domain.Item, error)
	UpsertMany(ctx context.Context, items []*domain.Item) error
}

type GameClassRepository interface {
	GetByName(ctx context.Context, name string) (*domain.GameClass, error)
	GetAll(ctx context.Context) ([]*domain.GameClass, error)
	UpsertMany(ctx context.Context, classes []*domain.GameClass) error
}

type SkillRepository interface {
	GetByNames(ctx context.Context, names []string) ([]*domain.Skill, error)
	GetAll(ctx context.Context) ([]*domain.Skill, error)
	UpsertMany(ctx context.Context, skills []*domain.Skill) error
}

type MapRepository interface {
	Create(ctx context.Context, m *domain.GameMap) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GameMap, error)
	GetByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*domain.GameMap, error)
	Update(ctx context.Context, m *domain.GameMap) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TilePresetRepository interface {
	Create(ctx context.Context, preset *domain.TilePreset) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TilePreset, error)
	GetByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*domain.TilePreset, error)
	Update(ctx context.Context, preset *domain.TilePreset) error
}

type TileSetRepository interface {
	// CreateWithTiles persists the tileset and every tile as one unit.
	CreateWithTiles(ctx context.Context, set *domain.TileSet, tiles []*domain.Tile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TileSet, error)
	GetByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*domain.TileSet, error)
}

type TokenRepository interface {
	Create(ctx context.Context, token *domain.Token) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Token, error)
	GetByMapID(ctx context.Context, mapID uuid.UUID) ([]*domain.Token, error)
	GetByCharacterID(ctx context.Context, characterID uuid.UUID) (*domain.Token, error)
	Update(ctx context.Context, token *domain.Token) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RollLogRepository interface {
	Create(ctx context.Context, roll *domain.MapRollLog) error
	GetByMapID(ctx context.Context, mapID uuid.UUID, limit, offset int) ([]*domain.MapRollLog, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	GetByCampaignID(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]*domain.AuditLog, error)
}

type Repositories struct {
	User       UserRepository
	Campaign   CampaignRepository
	Character  CharacterRepository
	Item       ItemRepository
	GameClass  GameClassRepository
	Skill      SkillRepository
	Map        MapRepository
	TilePreset TilePresetRepository
	TileSet    TileSetRepository
	Token      TokenRepository
	RollLog    RollLogRepository
	AuditLog   AuditLogRepository
}
