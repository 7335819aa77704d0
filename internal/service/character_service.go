package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CharacterService struct {
	characterRepo repository.CharacterRepository
	itemRepo      repository.ItemRepository
	classRepo     repository.GameClassRepository
	skillRepo     repository.SkillRepository
	access        *AccessService
	audit         *AuditService
}

func NewCharacterService(
	characterRepo repository.CharacterRepository,
	itemRepo repository.ItemRepository,
	classRepo repository.GameClassRepository,
	skillRepo repository.SkillRepository,
	access *AccessService,
	audit *AuditService,
) *CharacterService {
	return &CharacterService{
		characterRepo: characterRepo,
		itemRepo:      itemRepo,
		classRepo:     classRepo,
		skillRepo:     skillRepo,
		access:        access,
		audit:         audit,
	}
}

type CreateCharacterInput struct {
	Name         string
	Kind         *domain.CharacterKind
	OwnerID      *uuid.UUID
	ClassName    *string
	Level        *int
	Exp          *int
	CurrentHP    *int
	Stats        json.RawMessage
	WeaponSkills []domain.WeaponSkill
}

// Create is DM-only. Kind defaults to PLAYER; player characters default to
// the creating DM as owner, non-player kinds are forced ownerless.
func (s *CharacterService) Create(ctx context.Context, campaignID, userID uuid.UUID, input CreateCharacterInput) (*domain.Character, error) {
	if _, err := s.access.RequireDM(ctx, campaignID, userID); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "name",
			Message: "name is required",
		})
	}

	kind := domain.KindPlayer
	if input.Kind != nil {
		kind = *input.Kind
	}
	if kind != domain.KindPlayer && kind != domain.KindNPC && kind != domain.KindEnemy {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "kind",
			Message: "kind must be PLAYER, NPC or ENEMY",
		})
	}

	var ownerID *uuid.UUID
	if kind == domain.KindPlayer {
		if input.OwnerID != nil {
			ownerID = input.OwnerID
		} else {
			ownerID = &userID
		}
	}

	stats, err := domain.NormalizeStats(input.Stats)
	if err != nil {
		return nil, err
	}

	currentHP := stats.BaseHP()
	if input.CurrentHP != nil {
		currentHP = *input.CurrentHP
	}

	level := 1
	if input.Level != nil {
		level = *input.Level
	}
	exp := 0
	if input.Exp != nil {
		exp = *input.Exp
	}

	weaponSkills, _ := json.Marshal(input.WeaponSkills)
	if input.WeaponSkills == nil {
		weaponSkills = []byte("[]")
	}

	character := &domain.Character{
		ID:           uuid.New(),
		CampaignID:   campaignID,
		Name:         input.Name,
		Kind:         kind,
		OwnerID:      ownerID,
		ClassName:    input.ClassName,
		Level:        level,
		Exp:          exp,
		CurrentHP:    currentHP,
		Stats:        stats.JSON(),
		WeaponSkills: weaponSkills,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.characterRepo.Create(ctx, character); err != nil {
		return nil, err
	}

	if character.ClassName != nil {
		if err := s.grantClassSkills(ctx, character); err != nil {
			return nil, err
		}
	}

	if err := s.audit.Record(ctx, campaignID, userID, domain.AuditEntityCharacter, character.ID, "create", nil, character); err != nil {
		return nil, err
	}

	return s.characterRepo.GetByID(ctx, character.ID)
}

type UpdateCharacterInput struct {
	Name         *string
	Kind         *domain.CharacterKind
	OwnerID      *uuid.UUID
	ClearOwner   bool
	ClassName    *string
	Level        *int
	Exp          *int
	CurrentHP    *int
	Stats        json.RawMessage
	WeaponSkills *[]domain.WeaponSkill
}

// Update is DM-only with replace-if-present semantics: omitted fields keep
// their stored values. A class change re-runs the skill auto-grant.
func (s *CharacterService) Update(ctx context.Context, characterID, userID uuid.UUID, input UpdateCharacterInput) (*domain.Character, error) {
	character, _, err := s.requireDMForCharacter(ctx, characterID, userID)
	if err != nil {
		return nil, err
	}

	before := *character

	if input.Name != nil {
		character.Name = *input.Name
	}
	if input.Kind != nil {
		if *input.Kind != domain.KindPlayer && *input.Kind != domain.KindNPC && *input.Kind != domain.KindEnemy {
			return nil, domain.NewValidationError(domain.FieldViolation{
				Field:   "kind",
				Message: "kind must be PLAYER, NPC or ENEMY",
			})
		}
		character.Kind = *input.Kind
	}
	if input.OwnerID != nil {
		character.OwnerID = input.OwnerID
	}
	if input.ClearOwner {
		character.OwnerID = nil
	}
	// ownerId is only meaningful for player characters
	if character.Kind != domain.KindPlayer {
		character.OwnerID = nil
	}

	classChanged := false
	if input.ClassName != nil {
		if character.ClassName == nil || *character.ClassName != *input.ClassName {
			classChanged = true
		}
		character.ClassName = input.ClassName
	}
	if input.Level != nil {
		character.Level = *input.Level
	}
	if input.Exp != nil {
		character.Exp = *input.Exp
	}
	if input.CurrentHP != nil {
		character.CurrentHP = *input.CurrentHP
	}
	if input.Stats != nil {
		stats, err := domain.NormalizeStats(input.Stats)
		if err != nil {
			return nil, err
		}
		character.Stats = stats.JSON()
	}
	if input.WeaponSkills != nil {
		data, _ := json.Marshal(*input.WeaponSkills)
		character.WeaponSkills = data
	}
	character.UpdatedAt = time.Now()

	if err := s.characterRepo.Update(ctx, character); err != nil {
		return nil, err
	}

	if classChanged && character.ClassName != nil {
		if err := s.grantClassSkills(ctx, character); err != nil {
			return nil, err
		}
	}

	if err := s.audit.Record(ctx, character.CampaignID, userID, domain.AuditEntityCharacter, character.ID, "update", &before, character); err != nil {
		return nil, err
	}

	return s.characterRepo.GetByID(ctx, character.ID)
}

func (s *CharacterService) Get(ctx context.Context, characterID, userID uuid.UUID) (*domain.Character, error) {
	character, err := s.getCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, character.CampaignID, userID); err != nil {
		return nil, err
	}
	return character, nil
}

func (s *CharacterService) ListByCampaign(ctx context.Context, campaignID, userID uuid.UUID) ([]*domain.Character, error) {
	if _, err := s.access.RequireMember(ctx, campaignID, userID); err != nil {
		return nil, err
	}
	return s.characterRepo.GetByCampaignID(ctx, campaignID)
}

// UpdateHP may be performed by the DM or the owning player. The value is
// taken as-is; clamping against a max is the caller's business.
func (s *CharacterService) UpdateHP(ctx context.Context, characterID, userID uuid.UUID, hp int) (*domain.Character, error) {
	character, _, err := s.requireEditForCharacter(ctx, characterID, userID)
	if err != nil {
		return nil, err
	}
	if hp < 0 {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field:   "currentHp",
			Message: "currentHp must be non-negative",
		})
	}

	before := *character
	character.CurrentHP = hp
	character.UpdatedAt = time.Now()
	if err := s.characterRepo.Update(ctx, character); err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, character.CampaignID, userID, domain.AuditEntityCharacter, character.ID, "update_hp", &before, character); err != nil {
		return nil, err
	}
	return character, nil
}

type AddItemInput struct {
	ItemID  uuid.UUID
	Uses    *int
	Blessed bool
}

// AddItem is DM-only. New rows append past the current max sortOrder; a full
// inventory (8 rows) rejects the add with no change.
func (s *CharacterService) AddItem(ctx context.Context, characterID, userID uuid.UUID, input AddItemInput) (*domain.CharacterItem, error) {
	character, _, err := s.requireDMForCharacter(ctx, characterID, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := s.characterRepo.GetItems(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if len(rows) >= domain.MaxInventorySize {
		return nil, domain.ErrInventoryFull
	}

	sortOrder := 0
	for _, row := range rows {
		if row.SortOrder >= sortOrder {
			sortOrder = row.SortOrder + 1
		}
	}

	uses := input.Uses
	if uses == nil {
		uses = item.DefaultUses
	}

	row := &domain.CharacterItem{
		ID:          uuid.New(),
		CharacterID: characterID,
		ItemID:      item.ID,
		SortOrder:   sortOrder,
		Uses:        uses,
		Blessed:     input.Blessed,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.characterRepo.CreateItem(ctx, row); err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, character.CampaignID, userID, domain.AuditEntityCharacter, character.ID, "add_item", nil, row); err != nil {
		return nil, err
	}
	return s.characterRepo.GetItem(ctx, row.ID)
}

// RemoveItem is DM-only. Remaining rows keep their sortOrder values; gaps are
// fine until the next explicit reorder.
func (s *CharacterService) RemoveItem(ctx context.Context, characterID, rowID, userID uuid.UUID) error {
	character, _, err := s.requireDMForCharacter(ctx, characterID, userID)
	if err != nil {
		return err
	}

	row, err := s.characterRepo.GetItem(ctx, rowID)
	if err != nil || row.CharacterID != characterID {
		return domain.ErrNotFound
	}

	if err := s.characterRepo.DeleteItem(ctx, rowID); err != nil {
		return err
	}

	if row.ID == derefUUID(character.EquippedWeaponItemID) {
		character.EquippedWeaponItemID = nil
		if err := s.characterRepo.Update(ctx, character); err != nil {
			return err
		}
	}

	return s.audit.Record(ctx, character.CampaignID, userID, domain.AuditEntityCharacter, character.ID, "remove_item", row, nil)
}

type UpdateItemInput struct {
	Uses    *int
	UsesSet bool
	Blessed *bool
}

// UpdateItem edits the mutable inventory fields (uses, blessed). DM or
// owning player; omitted fields keep their values.
func (s *CharacterService) UpdateItem(ctx context.Context, characterID, rowID, userID uuid.UUID, input UpdateItemInput) (*domain.CharacterItem, error) {
	character, _, err := s.requireEditForCharacter(ctx, characterID, userID)
	if err != nil {
		return nil, err
	}

	row, err := s.characterRepo.GetItem(ctx, rowID)
	if err != nil || row.CharacterID != characterID {
		return nil, domain.ErrNotFound
	}

	before := *row
	if input.UsesSet {
		row.Uses = input.Uses
	}
	if input.Blessed != nil {
		row.Blessed = *input.Blessed
	}
	row.UpdatedAt = time.Now()
	if err := s.characterRepo.UpdateItem(ctx, row); err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, character.CampaignID, userID, domain.AuditEntityCharacter, character.ID, "update_item", &before, row); err != nil {
		return nil, err
	}
	return row, nil
}

// Reorder rewrites sortOrder to match orderedIDs. The submitted list must be
// exactly the character's current inventory set (same cardinality, same
// membership) or nothing changes.
func (s *CharacterService) Reorder(ctx context.Context, characterID, userID uuid.UUID, orderedIDs []uuid.UUID) ([]*domain.CharacterItem, error) {
	character, _, err := s.requireEditForCharacter(ctx, characterID, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.characterRepo.GetItems(ctx, characterID)
	if err != nil {
		return nil, err
	}

	if len(orderedIDs) != len(rows) {
		return nil, domain.ErrReorderMismatch
	}
	current := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		current[row.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !current[id] || seen[id] {
			return nil, domain.ErrReorderMismatch
		}
		seen[id] = true
	}

	before := rows
	if err := s.characterRepo.ReorderItems(ctx, characterID, orderedIDs); err != nil {
		return nil, err
	}

	after, err := s.characterRepo.GetItems(ctx, characterID)
	if err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, character.CampaignID, userID, domain.AuditEntityCharacter, character.ID, "reorder_items", before, after); err != nil {
		return nil, err
	}
	return after, nil
}

// EquipWeapon points the character at one of its own inventory rows, or
// un-equips on nil. The row's item must be a weapon; class-restricted (laguz)
// weapons require a matching class unless the caller is the DM.
func (s *CharacterService) EquipWeapon(ctx context.Context, characterID, userID uuid.UUID, rowID *uuid.UUID) (*domain.Character, error) {
	character, membership, err := s.requireEditForCharacter(ctx, characterID, userID)
	if err != nil {
		return nil, err
	}

	before := *character

	if rowID == nil {
		character.EquippedWeaponItemID = nil
	} else {
		row, err := s.characterRepo.GetItem(ctx, *rowID)
		if err != nil || row.CharacterID != characterID {
			return nil, domain.ErrNotFound
		}
		if row.Item == nil || !row.Item.IsWeapon() {
			return nil, domain.NewValidationError(domain.FieldViolation{
				Field:   "equippedWeaponItemId",
				Message: "only weapons can be equipped",
			})
		}
		if row.Item.ClassRestriction != nil && membership.Role != domain.RoleDM {
			if character.ClassName == nil || *character.ClassName != *row.Item.ClassRestriction {
				return nil, domain.ErrForbidden
			}
		}
		character.EquippedWeaponItemID = &row.ID
	}

	character.UpdatedAt = time.Now()
	if err := s.characterRepo.Update(ctx, character); err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, character.CampaignID, userID, domain.AuditEntityCharacter, character.ID, "equip_weapon", &before, character); err != nil {
		return nil, err
	}
	return character, nil
}

// grantClassSkills resolves the class's skill-name list and links any skill
// the character is missing. Unknown skill names are skipped; existing links
// are left alone.
func (s *CharacterService) grantClassSkills(ctx context.Context, character *domain.Character) error {
	if character.ClassName == nil {
		return nil
	}
	class, err := s.classRepo.GetByName(ctx, *character.ClassName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	var names []string
	if len(class.SkillNames) > 0 {
		if err := json.Unmarshal(class.SkillNames, &names); err != nil {
			return nil
		}
	}
	if len(names) == 0 {
		return nil
	}

	skills, err := s.skillRepo.GetByNames(ctx, names)
	if err != nil {
		return err
	}

	existing, err := s.characterRepo.GetSkills(ctx, character.ID)
	if err != nil {
		return err
	}
	have := make(map[uuid.UUID]bool, len(existing))
	for _, link := range existing {
		have[link.SkillID] = true
	}

	var links []*domain.CharacterSkill
	for _, skill := range skills {
		if have[skill.ID] {
			continue
		}
		links = append(links, &domain.CharacterSkill{
			ID:          uuid.New(),
			CharacterID: character.ID,
			SkillID:     skill.ID,
			CreatedAt:   time.Now(),
		})
	}
	return s.characterRepo.AddSkills(ctx, links)
}

func (s *CharacterService) getCharacter(ctx context.Context, characterID uuid.UUID) (*domain.Character, error) {
	character, err := s.characterRepo.GetByID(ctx, characterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return character, nil
}

// requireDMForCharacter resolves the character's owning campaign and checks
// the DM role there.
func (s *CharacterService) requireDMForCharacter(ctx context.Context, characterID, userID uuid.UUID) (*domain.Character, *domain.CampaignMember, error) {
	character, err := s.getCharacter(ctx, characterID)
	if err != nil {
		return nil, nil, err
	}
	membership, err := s.access.RequireDM(ctx, character.CampaignID, userID)
	if err != nil {
		return nil, nil, err
	}
	return character, membership, nil
}

// requireEditForCharacter applies the shared DM-or-owner rule.
func (s *CharacterService) requireEditForCharacter(ctx context.Context, characterID, userID uuid.UUID) (*domain.Character, *domain.CampaignMember, error) {
	character, err := s.getCharacter(ctx, characterID)
	if err != nil {
		return nil, nil, err
	}
	membership, err := s.access.RequireMember(ctx, character.CampaignID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanEditCharacter(membership, character, userID) {
		return nil, nil, domain.ErrForbidden
	}
	return character, membership, nil
}

func derefUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
