package service_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/service"
	"github.com/dom/emblem-vtt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTileSetService_Upload(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, repos := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	player, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).WithPlayer(player).Build(t, tdb.DB)

	t.Run("slices the sheet row-major into tiles", func(t *testing.T) {
		set, err := services.TileSet.Upload(ctx, campaign.ID, dm.ID, service.UploadTileSetInput{
			Name:      "Terrain",
			Columns:   3,
			Rows:      2,
			TileSizeX: 16,
			TileSizeY: 16,
			Image:     encodePNG(t, 48, 32),
		})
		require.NoError(t, err)

		stored, err := repos.TileSet.GetByID(ctx, set.ID)
		require.NoError(t, err)
		require.Len(t, stored.Tiles, 6)
		for i, tile := range stored.Tiles {
			assert.Equal(t, i, tile.Index)
			assert.NotEmpty(t, tile.ImageRef)
		}
	})

	t.Run("pixel dimensions must match exactly", func(t *testing.T) {
		_, err := services.TileSet.Upload(ctx, campaign.ID, dm.ID, service.UploadTileSetInput{
			Name:      "Off by one",
			Columns:   3,
			Rows:      2,
			TileSizeX: 16,
			TileSizeY: 16,
			Image:     encodePNG(t, 47, 32),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("tile-count ceiling checked before decoding", func(t *testing.T) {
		_, err := services.TileSet.Upload(ctx, campaign.ID, dm.ID, service.UploadTileSetInput{
			Name:      "Too many",
			Columns:   65,
			Rows:      64,
			TileSizeX: 1,
			TileSizeY: 1,
			Image:     []byte("not an image"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("undecodable image rejected", func(t *testing.T) {
		_, err := services.TileSet.Upload(ctx, campaign.ID, dm.ID, service.UploadTileSetInput{
			Name:      "Garbage",
			Columns:   1,
			Rows:      1,
			TileSizeX: 16,
			TileSizeY: 16,
			Image:     []byte("not an image"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("players cannot upload", func(t *testing.T) {
		_, err := services.TileSet.Upload(ctx, campaign.ID, player.ID, service.UploadTileSetInput{
			Name:      "Denied",
			Columns:   1,
			Rows:      1,
			TileSizeX: 16,
			TileSizeY: 16,
			Image:     encodePNG(t, 16, 16),
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
