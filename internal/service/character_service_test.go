package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/service"
	"github.com/dom/emblem-vtt/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterService_Create(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, _ := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	player, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).WithPlayer(player).Build(t, tdb.DB)

	t.Run("defaults kind to player owned by the creating dm", func(t *testing.T) {
		character, err := services.Character.Create(ctx, campaign.ID, dm.ID, service.CreateCharacterInput{
			Name:  "Ike",
			Stats: json.RawMessage(`{"hp":20,"str":5}`),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.KindPlayer, character.Kind)
		require.NotNil(t, character.OwnerID)
		assert.Equal(t, dm.ID, *character.OwnerID)
		// currentHp defaults from the stats' hp.
		assert.Equal(t, 20, character.CurrentHP)
	})

	t.Run("flat stats fold into baseStats", func(t *testing.T) {
		character, err := services.Character.Create(ctx, campaign.ID, dm.ID, service.CreateCharacterInput{
			Name:  "Mist",
			Stats: json.RawMessage(`{"hp":16}`),
		})
		require.NoError(t, err)

		stats, err := domain.DecodeStats(character.Stats)
		require.NoError(t, err)
		assert.Equal(t, 16, stats.BaseStats["hp"])
	})

	t.Run("npc and enemy are forced ownerless", func(t *testing.T) {
		kind := domain.KindEnemy
		character, err := services.Character.Create(ctx, campaign.ID, dm.ID, service.CreateCharacterInput{
			Name:    "Black Knight",
			Kind:    &kind,
			OwnerID: &player.ID,
		})
		require.NoError(t, err)
		assert.Nil(t, character.OwnerID)
	})

	t.Run("players cannot create characters", func(t *testing.T) {
		_, err := services.Character.Create(ctx, campaign.ID, player.ID, service.CreateCharacterInput{
			Name: "Sothe",
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("invalid kind rejected", func(t *testing.T) {
		kind := domain.CharacterKind("BOSS")
		_, err := services.Character.Create(ctx, campaign.ID, dm.ID, service.CreateCharacterInput{
			Name: "Ashnard",
			Kind: &kind,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCharacterService_UpdateHP(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, _ := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	owner, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	other, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).WithPlayer(owner).WithPlayer(other).Build(t, tdb.DB)
	character := testutil.NewCharacterBuilder(campaign.ID).WithOwner(owner).WithHP(20).Build(t, tdb.DB)

	t.Run("owner can set hp", func(t *testing.T) {
		updated, err := services.Character.UpdateHP(ctx, character.ID, owner.ID, 12)
		require.NoError(t, err)
		assert.Equal(t, 12, updated.CurrentHP)
	})

	t.Run("dm can set hp", func(t *testing.T) {
		updated, err := services.Character.UpdateHP(ctx, character.ID, dm.ID, 18)
		require.NoError(t, err)
		assert.Equal(t, 18, updated.CurrentHP)
	})

	t.Run("other players are forbidden", func(t *testing.T) {
		_, err := services.Character.UpdateHP(ctx, character.ID, other.ID, 1)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("negative hp rejected", func(t *testing.T) {
		_, err := services.Character.UpdateHP(ctx, character.ID, owner.ID, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCharacterService_Inventory(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, repos := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	owner, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).WithPlayer(owner).Build(t, tdb.DB)
	character := testutil.NewCharacterBuilder(campaign.ID).WithOwner(owner).Build(t, tdb.DB)

	vulnerary := testutil.NewItemBuilder().WithName("Vulnerary").WithDefaultUses(3).Build(t, tdb.DB)

	t.Run("add item defaults uses from the catalog", func(t *testing.T) {
		row, err := services.Character.AddItem(ctx, character.ID, dm.ID, service.AddItemInput{
			ItemID: vulnerary.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, row.Uses)
		assert.Equal(t, 3, *row.Uses)
		assert.Equal(t, 0, row.SortOrder)
	})

	t.Run("players cannot add items", func(t *testing.T) {
		_, err := services.Character.AddItem(ctx, character.ID, owner.ID, service.AddItemInput{
			ItemID: vulnerary.ID,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("inventory caps at eight rows", func(t *testing.T) {
		for i := 1; i < domain.MaxInventorySize; i++ {
			_, err := services.Character.AddItem(ctx, character.ID, dm.ID, service.AddItemInput{
				ItemID: vulnerary.ID,
			})
			require.NoError(t, err)
		}

		_, err := services.Character.AddItem(ctx, character.ID, dm.ID, service.AddItemInput{
			ItemID: vulnerary.ID,
		})
		assert.ErrorIs(t, err, domain.ErrInventoryFull)

		rows, err := repos.Character.GetItems(ctx, character.ID)
		require.NoError(t, err)
		assert.Len(t, rows, domain.MaxInventorySize)
	})

	t.Run("reorder rewrites sortOrder densely", func(t *testing.T) {
		rows, err := repos.Character.GetItems(ctx, character.ID)
		require.NoError(t, err)

		reversed := make([]uuid.UUID, 0, len(rows))
		for i := len(rows) - 1; i >= 0; i-- {
			reversed = append(reversed, rows[i].ID)
		}

		after, err := services.Character.Reorder(ctx, character.ID, owner.ID, reversed)
		require.NoError(t, err)
		require.Len(t, after, len(rows))
		for i, row := range after {
			assert.Equal(t, i, row.SortOrder)
			assert.Equal(t, reversed[i], row.ID)
		}
	})

	t.Run("reorder with wrong cardinality is rejected unchanged", func(t *testing.T) {
		rows, err := repos.Character.GetItems(ctx, character.ID)
		require.NoError(t, err)

		_, err = services.Character.Reorder(ctx, character.ID, owner.ID, []uuid.UUID{rows[0].ID})
		assert.ErrorIs(t, err, domain.ErrReorderMismatch)

		after, err := repos.Character.GetItems(ctx, character.ID)
		require.NoError(t, err)
		for i, row := range after {
			assert.Equal(t, rows[i].ID, row.ID)
		}
	})

	t.Run("reorder with a foreign id is rejected", func(t *testing.T) {
		rows, err := repos.Character.GetItems(ctx, character.ID)
		require.NoError(t, err)

		ids := make([]uuid.UUID, len(rows))
		for i, row := range rows {
			ids[i] = row.ID
		}
		ids[0] = uuid.New()

		_, err = services.Character.Reorder(ctx, character.ID, owner.ID, ids)
		assert.ErrorIs(t, err, domain.ErrReorderMismatch)
	})

	t.Run("reorder with a duplicated id is rejected", func(t *testing.T) {
		rows, err := repos.Character.GetItems(ctx, character.ID)
		require.NoError(t, err)

		ids := make([]uuid.UUID, len(rows))
		for i, row := range rows {
			ids[i] = row.ID
		}
		ids[1] = ids[0]

		_, err = services.Character.Reorder(ctx, character.ID, owner.ID, ids)
		assert.ErrorIs(t, err, domain.ErrReorderMismatch)
	})

	t.Run("update item distinguishes clear from keep", func(t *testing.T) {
		rows, err := repos.Character.GetItems(ctx, character.ID)
		require.NoError(t, err)
		row := rows[0]

		blessed := true
		updated, err := services.Character.UpdateItem(ctx, character.ID, row.ID, owner.ID, service.UpdateItemInput{
			Blessed: &blessed,
		})
		require.NoError(t, err)
		assert.True(t, updated.Blessed)
		assert.NotNil(t, updated.Uses, "uses must survive an update that omits it")

		updated, err = services.Character.UpdateItem(ctx, character.ID, row.ID, owner.ID, service.UpdateItemInput{
			UsesSet: true,
		})
		require.NoError(t, err)
		assert.Nil(t, updated.Uses, "explicit null must clear uses")
	})

	t.Run("remove item leaves gaps until the next reorder", func(t *testing.T) {
		rows, err := repos.Character.GetItems(ctx, character.ID)
		require.NoError(t, err)

		require.NoError(t, services.Character.RemoveItem(ctx, character.ID, rows[0].ID, dm.ID))

		after, err := repos.Character.GetItems(ctx, character.ID)
		require.NoError(t, err)
		assert.Len(t, after, len(rows)-1)
		assert.Equal(t, 1, after[0].SortOrder)
	})
}

func TestCharacterService_EquipWeapon(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, _ := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	owner, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).WithPlayer(owner).Build(t, tdb.DB)
	character := testutil.NewCharacterBuilder(campaign.ID).WithOwner(owner).WithClass("Mercenary").Build(t, tdb.DB)

	sword := testutil.NewItemBuilder().WithName("Iron Sword").AsWeapon().Build(t, tdb.DB)
	herb := testutil.NewItemBuilder().WithName("Herb").Build(t, tdb.DB)
	fang := testutil.NewItemBuilder().WithName("Beast Fang").AsWeapon().WithClassRestriction(domain.LaguzRestriction).Build(t, tdb.DB)

	swordRow, err := services.Character.AddItem(ctx, character.ID, dm.ID, service.AddItemInput{ItemID: sword.ID})
	require.NoError(t, err)
	herbRow, err := services.Character.AddItem(ctx, character.ID, dm.ID, service.AddItemInput{ItemID: herb.ID})
	require.NoError(t, err)
	fangRow, err := services.Character.AddItem(ctx, character.ID, dm.ID, service.AddItemInput{ItemID: fang.ID})
	require.NoError(t, err)

	t.Run("owner equips a weapon", func(t *testing.T) {
		updated, err := services.Character.EquipWeapon(ctx, character.ID, owner.ID, &swordRow.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.EquippedWeaponItemID)
		assert.Equal(t, swordRow.ID, *updated.EquippedWeaponItemID)
	})

	t.Run("non-weapon cannot be equipped", func(t *testing.T) {
		_, err := services.Character.EquipWeapon(ctx, character.ID, owner.ID, &herbRow.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("class-restricted weapon forbidden for mismatched class", func(t *testing.T) {
		_, err := services.Character.EquipWeapon(ctx, character.ID, owner.ID, &fangRow.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("dm bypasses the class restriction", func(t *testing.T) {
		updated, err := services.Character.EquipWeapon(ctx, character.ID, dm.ID, &fangRow.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.EquippedWeaponItemID)
		assert.Equal(t, fangRow.ID, *updated.EquippedWeaponItemID)
	})

	t.Run("matching class may equip the restricted weapon", func(t *testing.T) {
		laguz := testutil.NewCharacterBuilder(campaign.ID).WithOwner(owner).WithClass(domain.LaguzRestriction).Build(t, tdb.DB)
		row, err := services.Character.AddItem(ctx, laguz.ID, dm.ID, service.AddItemInput{ItemID: fang.ID})
		require.NoError(t, err)

		updated, err := services.Character.EquipWeapon(ctx, laguz.ID, owner.ID, &row.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.EquippedWeaponItemID)
	})

	t.Run("nil un-equips", func(t *testing.T) {
		updated, err := services.Character.EquipWeapon(ctx, character.ID, owner.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, updated.EquippedWeaponItemID)
	})

	t.Run("removing the equipped row clears the pointer", func(t *testing.T) {
		updated, err := services.Character.EquipWeapon(ctx, character.ID, owner.ID, &swordRow.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.EquippedWeaponItemID)

		require.NoError(t, services.Character.RemoveItem(ctx, character.ID, swordRow.ID, dm.ID))

		character, err := services.Character.Get(ctx, character.ID, owner.ID)
		require.NoError(t, err)
		assert.Nil(t, character.EquippedWeaponItemID)
	})
}

func TestCharacterService_ClassSkillGrant(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	services, repos := testutil.NewTestServices(t, tdb)
	ctx := context.Background()

	dm, _ := testutil.NewUserBuilder().Build(t, tdb.DB)
	campaign := testutil.NewCampaignBuilder().WithDM(dm).Build(t, tdb.DB)

	require.NoError(t, services.Catalog.Import(ctx, &service.SeedDocument{
		Classes: []*domain.GameClass{{
			Name:       "Myrmidon",
			SkillNames: []byte(`["Vantage","Astra"]`),
		}},
		Skills: []*domain.Skill{
			{Name: "Vantage"},
			{Name: "Astra"},
		},
	}))

	className := "Myrmidon"
	character, err := services.Character.Create(ctx, campaign.ID, dm.ID, service.CreateCharacterInput{
		Name:      "Zihark",
		ClassName: &className,
	})
	require.NoError(t, err)

	links, err := repos.Character.GetSkills(ctx, character.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)

	// Re-running the grant through an update to the same class list adds
	// nothing new.
	_, err = services.Character.Update(ctx, character.ID, dm.ID, service.UpdateCharacterInput{
		ClassName: &className,
	})
	require.NoError(t, err)

	links, err = repos.Character.GetSkills(ctx, character.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}
