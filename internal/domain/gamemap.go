package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DefaultTileCount = 10
	DefaultTileSize  = 50
)

type GameMap struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CampaignID uuid.UUID      `json:"campaignId" gorm:"type:uuid;index;not null"`
	Name       string         `json:"name" gorm:"not null"`
	ImageURL   *string        `json:"imageUrl"`
	TileGrid   datatypes.JSON `json:"tileGrid" gorm:"type:jsonb"`
	TileCountX int            `json:"tileCountX" gorm:"not null;default:10"`
	TileCountY int            `json:"tileCountY" gorm:"not null;default:10"`
	TileSizeX  int            `json:"tileSizeX" gorm:"not null;default:50"`
	TileSizeY  int            `json:"tileSizeY" gorm:"not null;default:50"`
	OffsetX    int            `json:"offsetX" gorm:"not null;default:0"`
	OffsetY    int            `json:"offsetY" gorm:"not null;default:0"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`

	// Relations
	Campaign *Campaign `json:"campaign,omitempty" gorm:"foreignKey:CampaignID"`
}

// TilePreset is a named, reusable tile grid scoped to a campaign. It carries
// the same grid-dimension invariant as GameMap.
type TilePreset struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CampaignID uuid.UUID      `json:"campaignId" gorm:"type:uuid;index;not null"`
	Name       string         `json:"name" gorm:"not null"`
	TileGrid   datatypes.JSON `json:"tileGrid" gorm:"type:jsonb"`
	TileCountX int            `json:"tileCountX" gorm:"not null"`
	TileCountY int            `json:"tileCountY" gorm:"not null"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// TileGrid is the decoded form of the jsonb column: rows of nullable tile
// identifiers, outer length == tileCountY, inner lengths == tileCountX.
type TileGrid [][]*string

// ValidateTileGrid checks the grid-dimension invariant.
func ValidateTileGrid(grid TileGrid, countX, countY int) []FieldViolation {
	var violations []FieldViolation
	if len(grid) != countY {
		violations = append(violations, FieldViolation{
			Field:   "tileGrid",
			Message: "row count must equal tileCountY",
		})
		return violations
	}
	for _, row := range grid {
		if len(row) != countX {
			violations = append(violations, FieldViolation{
				Field:   "tileGrid",
				Message: "every row length must equal tileCountX",
			})
			break
		}
	}
	return violations
}

// EmptyTileGrid synthesizes an all-null grid sized countY x countX.
func EmptyTileGrid(countX, countY int) TileGrid {
	grid := make(TileGrid, countY)
	for y := range grid {
		grid[y] = make([]*string, countX)
	}
	return grid
}

func (g TileGrid) JSON() datatypes.JSON {
	data, _ := json.Marshal(g)
	return datatypes.JSON(data)
}

func DecodeTileGrid(raw datatypes.JSON) (TileGrid, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var grid TileGrid
	if err := json.Unmarshal(raw, &grid); err != nil {
		return nil, err
	}
	return grid, nil
}
