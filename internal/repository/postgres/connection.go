package postgres

import (
	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Campaign{},
		&domain.CampaignMember{},
		&domain.Character{},
		&domain.CharacterItem{},
		&domain.CharacterSkill{},
		&domain.Item{},
		&domain.GameClass{},
		&domain.Skill{},
		&domain.GameMap{},
		&domain.TilePreset{},
		&domain.TileSet{},
		&domain.Tile{},
		&domain.Token{},
		&domain.MapRollLog{},
		&domain.AuditLog{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:       NewUserRepository(db),
		Campaign:   NewCampaignRepository(db),
		Character:  NewCharacterRepository(db),
		Item:       NewItemRepository(db),
		GameClass:  NewGameClassRepository(db),
		Skill:      NewSkillRepository(db),
		Map:        NewMapRepository(db),
		TilePreset: NewTilePresetRepository(db),
		TileSet:    NewTileSetRepository(db),
		Token:      NewTokenRepository(db),
		RollLog:    NewRollLogRepository(db),
		AuditLog:   NewAuditLogRepository(db),
	}
}
