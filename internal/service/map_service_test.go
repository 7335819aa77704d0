package service_test

import (
	"context"
	"testing"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/service"
	"github.com/dom/emblem-vtt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapService_Create(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, _ := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	player, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).WithPlayer(player).Build(t, tdb.DB)

	imageURL := "https://maps.example.com/ch1.png"

	t.Run("image map synthesizes a default grid", func(t *testing.T) {
		m, err := services.Map.Create(ctx, campaign.ID, dm.ID, service.CreateMapInput{
			Name:     "Chapter 1",
			ImageURL: &imageURL,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultTileCount, m.TileCountX)
		assert.Equal(t, domain.DefaultTileCount, m.TileCountY)
		assert.Equal(t, domain.DefaultTileSize, m.TileSizeX)

		grid, err := domain.DecodeTileGrid(m.TileGrid)
		require.NoError(t, err)
		assert.Empty(t, domain.ValidateTileGrid(grid, m.TileCountX, m.TileCountY))
	})

	t.Run("grid map with explicit dimensions", func(t *testing.T) {
		countX, countY := 3, 2
		m, err := services.Map.Create(ctx, campaign.ID, dm.ID, service.CreateMapInput{
			Name:       "Skirmish",
			TileGrid:   domain.EmptyTileGrid(countX, countY),
			TileCountX: &countX,
			TileCountY: &countY,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, m.TileCountX)
		assert.Equal(t, 2, m.TileCountY)
	})

	t.Run("grid dimensions must match the counts", func(t *testing.T) {
		countX, countY := 4, 4
		_, err := services.Map.Create(ctx, campaign.ID, dm.ID, service.CreateMapInput{
			Name:       "Broken",
			TileGrid:   domain.EmptyTileGrid(3, 4),
			TileCountX: &countX,
			TileCountY: &countY,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("image or grid required", func(t *testing.T) {
		_, err := services.Map.Create(ctx, campaign.ID, dm.ID, service.CreateMapInput{
			Name: "Empty",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("players cannot create maps", func(t *testing.T) {
		_, err := services.Map.Create(ctx, campaign.ID, player.ID, service.CreateMapInput{
			Name:     "Denied",
			ImageURL: &imageURL,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestMapService_Update(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, _ := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).Build(t, tdb.DB)
	m := testutil.NewMapBuilder(campaign.ID).WithTileCounts(4, 4).Build(t, tdb.DB)

	t.Run("grid is validated against the effective dimensions", func(t *testing.T) {
		countX := 5
		updated, err := services.Map.Update(ctx, m.ID, dm.ID, service.UpdateMapInput{
			TileCountX: &countX,
			TileGrid:   domain.EmptyTileGrid(5, 4),
		})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.TileCountX)
	})

	t.Run("mismatched grid rejected", func(t *testing.T) {
		_, err := services.Map.Update(ctx, m.ID, dm.ID, service.UpdateMapInput{
			TileGrid: domain.EmptyTileGrid(2, 2),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("count-only change must still match the stored grid", func(t *testing.T) {
		countX := 12
		_, err := services.Map.Update(ctx, m.ID, dm.ID, service.UpdateMapInput{
			TileCountX: &countX,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		stored, err := services.Map.Get(ctx, m.ID, dm.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, stored.TileCountX)
	})

	t.Run("name-only update keeps the stored grid", func(t *testing.T) {
		name := "Renamed"
		updated, err := services.Map.Update(ctx, m.ID, dm.ID, service.UpdateMapInput{
			Name: &name,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
	})
}

func TestMapService_Presets(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, _ := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	player, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).WithPlayer(player).Build(t, tdb.DB)

	t.Run("create and list", func(t *testing.T) {
		_, err := services.Map.CreatePreset(ctx, campaign.ID, dm.ID, service.CreatePresetInput{
			Name:       "Forest clearing",
			TileGrid:   domain.EmptyTileGrid(2, 2),
			TileCountX: 2,
			TileCountY: 2,
		})
		require.NoError(t, err)

		presets, err := services.Map.ListPresets(ctx, campaign.ID, player.ID)
		require.NoError(t, err)
		assert.Len(t, presets, 1)
	})

	t.Run("update re-validates the grid", func(t *testing.T) {
		preset, err := services.Map.CreatePreset(ctx, campaign.ID, dm.ID, service.CreatePresetInput{
			Name:       "Riverbank",
			TileGrid:   domain.EmptyTileGrid(3, 3),
			TileCountX: 3,
			TileCountY: 3,
		})
		require.NoError(t, err)

		countX := 4
		_, err = services.Map.UpdatePreset(ctx, preset.ID, dm.ID, service.UpdatePresetInput{
			TileCountX: &countX,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		updated, err := services.Map.UpdatePreset(ctx, preset.ID, dm.ID, service.UpdatePresetInput{
			TileCountX: &countX,
			TileGrid:   domain.EmptyTileGrid(4, 3),
		})
		require.NoError(t, err)
		assert.Equal(t, 4, updated.TileCountX)
	})

	t.Run("tile-count ceiling enforced", func(t *testing.T) {
		_, err := services.Map.CreatePreset(ctx, campaign.ID, dm.ID, service.CreatePresetInput{
			Name:       "Too big",
			TileGrid:   domain.EmptyTileGrid(65, 64),
			TileCountX: 65,
			TileCountY: 64,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
