package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTileGrid(t *testing.T) {
	tile := "grass"

	tests := []struct {
		name       string
		grid       TileGrid
		countX     int
		countY     int
		violations int
	}{
		{
			name:       "valid grid",
			grid:       TileGrid{{&tile, nil}, {nil, &tile}},
			countX:     2,
			countY:     2,
			violations: 0,
		},
		{
			name:       "too few rows",
			grid:       TileGrid{{nil, nil}},
			countX:     2,
			countY:     2,
			violations: 1,
		},
		{
			name:       "ragged row",
			grid:       TileGrid{{nil, nil}, {nil}},
			countX:     2,
			countY:     2,
			violations: 1,
		},
		{
			name:       "empty grid with zero counts",
			grid:       TileGrid{},
			countX:     0,
			countY:     0,
			violations: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateTileGrid(tt.grid, tt.countX, tt.countY)
			assert.Len(t, violations, tt.violations)
		})
	}
}

func TestEmptyTileGrid(t *testing.T) {
	grid := EmptyTileGrid(3, 2)

	require.Len(t, grid, 2)
	for _, row := range grid {
		require.Len(t, row, 3)
		for _, cell := range row {
			assert.Nil(t, cell)
		}
	}
	assert.Empty(t, ValidateTileGrid(grid, 3, 2))
}

func TestTileGridJSONRoundTrip(t *testing.T) {
	tile := "water"
	grid := TileGrid{{&tile, nil}, {nil, nil}}

	decoded, err := DecodeTileGrid(grid.JSON())
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	require.NotNil(t, decoded[0][0])
	assert.Equal(t, "water", *decoded[0][0])
	assert.Nil(t, decoded[0][1])
}
