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

func TestTokenService_Create(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, _ := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	player, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).WithPlayer(player).Build(t, tdb.DB)
	m := testutil.NewMapBuilder(campaign.ID).Build(t, tdb.DB)
	character := testutil.NewCharacterBuilder(campaign.ID).WithOwner(player).Build(t, tdb.DB)

	t.Run("dm creates a bound token", func(t *testing.T) {
		token, err := services.Token.Create(ctx, m.ID, dm.ID, service.CreateTokenInput{
			CharacterID: &character.ID,
			Name:        "Ike",
			X:           2,
			Y:           3,
		})
		require.NoError(t, err)
		require.NotNil(t, token.CharacterID)
		assert.Equal(t, character.ID, *token.CharacterID)
	})

	t.Run("a character may have only one token", func(t *testing.T) {
		otherMap := testutil.NewMapBuilder(campaign.ID).Build(t, tdb.DB)
		_, err := services.Token.Create(ctx, otherMap.ID, dm.ID, service.CreateTokenInput{
			CharacterID: &character.ID,
			Name:        "Ike again",
		})
		assert.ErrorIs(t, err, domain.ErrTokenExists)
	})

	t.Run("cross-campaign character binding rejected", func(t *testing.T) {
		otherCampaign := testutil.NewCampaignBuilder().WithDM(dm).Build(t, tdb.DB)
		stranger := testutil.NewCharacterBuilder(otherCampaign.ID).Build(t, tdb.DB)

		_, err := services.Token.Create(ctx, m.ID, dm.ID, service.CreateTokenInput{
			CharacterID: &stranger.ID,
			Name:        "Stranger",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("players cannot create tokens", func(t *testing.T) {
		_, err := services.Token.Create(ctx, m.ID, player.ID, service.CreateTokenInput{
			Name: "Denied",
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestTokenService_Move(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, _ := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	player, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).WithPlayer(player).Build(t, tdb.DB)
	m := testutil.NewMapBuilder(campaign.ID).Build(t, tdb.DB)

	token, err := services.Token.Create(ctx, m.ID, dm.ID, service.CreateTokenInput{Name: "Soldier"})
	require.NoError(t, err)

	t.Run("dm moves the token", func(t *testing.T) {
		moved, err := services.Token.Move(ctx, token.ID, dm.ID, 7, 4)
		require.NoError(t, err)
		assert.Equal(t, 7, moved.X)
		assert.Equal(t, 4, moved.Y)
	})

	t.Run("players cannot move tokens", func(t *testing.T) {
		_, err := services.Token.Move(ctx, token.ID, player.ID, 0, 0)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("members can list tokens", func(t *testing.T) {
		tokens, err := services.Token.ListByMap(ctx, m.ID, player.ID)
		require.NoError(t, err)
		assert.Len(t, tokens, 1)
	})
}

func TestTokenService_Rebind(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, _ := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).Build(t, tdb.DB)
	m := testutil.NewMapBuilder(campaign.ID).Build(t, tdb.DB)
	first := testutil.NewCharacterBuilder(campaign.ID).Build(t, tdb.DB)
	second := testutil.NewCharacterBuilder(campaign.ID).Build(t, tdb.DB)

	token, err := services.Token.Create(ctx, m.ID, dm.ID, service.CreateTokenInput{
		CharacterID: &first.ID,
		Name:        "First",
	})
	require.NoError(t, err)

	t.Run("rebinding to a free character succeeds", func(t *testing.T) {
		updated, err := services.Token.Update(ctx, token.ID, dm.ID, service.UpdateTokenInput{
			CharacterID: &second.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.CharacterID)
		assert.Equal(t, second.ID, *updated.CharacterID)
	})

	t.Run("clearing the binding frees the character", func(t *testing.T) {
		updated, err := services.Token.Update(ctx, token.ID, dm.ID, service.UpdateTokenInput{
			ClearCharacter: true,
		})
		require.NoError(t, err)
		assert.Nil(t, updated.CharacterID)

		// The freed character can take a new token.
		_, err = services.Token.Create(ctx, m.ID, dm.ID, service.CreateTokenInput{
			CharacterID: &second.ID,
			Name:        "Second",
		})
		require.NoError(t, err)
	})
}
