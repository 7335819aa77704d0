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

func TestAuditService_List(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, _ := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	player, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).WithPlayer(player).Build(t, tdb.DB)

	// Mutations write the trail as a side effect.
	character, err := services.Character.Create(ctx, campaign.ID, dm.ID, service.CreateCharacterInput{
		Name: "Ike",
	})
	require.NoError(t, err)
	_, err = services.Character.UpdateHP(ctx, character.ID, dm.ID, 12)
	require.NoError(t, err)

	t.Run("dm sees entries newest first", func(t *testing.T) {
		entries, err := services.Audit.List(ctx, campaign.ID, dm.ID, 50, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "update_hp", entries[0].Action)
		assert.Equal(t, "create", entries[1].Action)
		assert.Equal(t, domain.AuditEntityCharacter, entries[0].EntityType)

		// update_hp keeps both snapshots; create has no before.
		assert.NotEmpty(t, entries[0].Before)
		assert.NotEmpty(t, entries[0].After)
		assert.Empty(t, entries[1].Before)
	})

	t.Run("players cannot read the trail", func(t *testing.T) {
		_, err := services.Audit.List(ctx, campaign.ID, player.ID, 50, 0)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
