package service

import (
	"github.com/dom/emblem-vtt/internal/config"
	"github.com/dom/emblem-vtt/internal/imaging"
	"github.com/dom/emblem-vtt/internal/repository"
	"github.com/dom/emblem-vtt/internal/session"
)

type Services struct {
	Auth      *AuthService
	Access    *AccessService
	Campaign  *CampaignService
	Character *CharacterService
	Map       *MapService
	TileSet   *TileSetService
	Token     *TokenService
	Roll      *RollService
	Audit     *AuditService
	Catalog   *CatalogService
}

func NewServices(
	repos *repository.Repositories,
	sessions session.Store,
	transform imaging.Transformer,
	blobs imaging.BlobStore,
	broadcaster Broadcaster,
	cfg *config.Config,
) *Services {
	access := NewAccessService(repos.Campaign)
	audit := NewAuditService(repos.AuditLog, access)

	return &Services{
		Auth:      NewAuthService(repos.User, sessions, cfg),
		Access:    access,
		Campaign:  NewCampaignService(repos.Campaign, repos.User, access),
		Character: NewCharacterService(repos.Character, repos.Item, repos.GameClass, repos.Skill, access, audit),
		Map:       NewMapService(repos.Map, repos.TilePreset, access, audit),
		TileSet:   NewTileSetService(repos.TileSet, access, transform, blobs),
		Token:     NewTokenService(repos.Token, repos.Map, repos.Character, access, broadcaster),
		Roll:      NewRollService(repos.RollLog, repos.Map, access, broadcaster),
		Audit:     audit,
		Catalog:   NewCatalogService(repos.Item, repos.GameClass, repos.Skill),
	}
}
