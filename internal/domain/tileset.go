package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxTilesPerSet rejects oversized uploads before any image processing runs.
const MaxTilesPerSet = 4096

type TileSet struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CampaignID uuid.UUID `json:"campaignId" gorm:"type:uuid;index;not null"`
	Name       string    `json:"name" gorm:"not null"`
	Columns    int       `json:"columns" gorm:"not null"`
	Rows       int       `json:"rows" gorm:"not null"`
	TileSizeX  int       `json:"tileSizeX" gorm:"not null"`
	TileSizeY  int       `json:"tileSizeY" gorm:"not null"`
	ImageRef   string    `json:"imageRef" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Relations
	Tiles []Tile `json:"tiles,omitempty" gorm:"foreignKey:TileSetID"`
}

// Tile is one cell of a sliced tileset image, addressable by its row-major
// index (row*columns + col).
type Tile struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TileSetID uuid.UUID `json:"tileSetId" gorm:"type:uuid;index;not null"`
	Index     int       `json:"index" gorm:"not null"`
	ImageRef  string    `json:"imageRef" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}
