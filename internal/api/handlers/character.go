package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/emblem-vtt/internal/api/middleware"
	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/service"
	"github.com/google/uuid"
)

type CharacterHandler struct {
	characterService *service.CharacterService
}

func NewCharacterHandler(characterService *service.CharacterService) *CharacterHandler {
	return &CharacterHandler{characterService: characterService}
}

type CreateCharacterRequest struct {
	Name         string               `json:"name"`
	Kind         *string              `json:"kind"`
	OwnerID      *uuid.UUID           `json:"ownerId"`
	ClassName    *string              `json:"className"`
	Level        *int                 `json:"level"`
	Exp          *int                 `json:"exp"`
	CurrentHP    *int                 `json:"currentHp"`
	Stats        json.RawMessage      `json:"stats"`
	WeaponSkills []domain.WeaponSkill `json:"weaponSkills"`
}

func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	campaignID, ok := parseUUIDParam(w, r, "campaignId")
	if !ok {
		return
	}

	var req CreateCharacterRequest
	if !parseBody(w, r, &req) {
		return
	}

	input := service.CreateCharacterInput{
		Name:         req.Name,
		OwnerID:      req.OwnerID,
		ClassName:    req.ClassName,
		Level:        req.Level,
		Exp:          req.Exp,
		CurrentHP:    req.CurrentHP,
		Stats:        req.Stats,
		WeaponSkills: req.WeaponSkills,
	}
	if req.Kind != nil {
		kind := domain.CharacterKind(*req.Kind)
		input.Kind = &kind
	}

	character, err := h.characterService.Create(r.Context(), campaignID, userID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, character)
}

func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	characterID, ok := parseUUIDParam(w, r, "characterId")
	if !ok {
		return
	}

	character, err := h.characterService.Get(r.Context(), characterID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, character)
}

func (h *CharacterHandler) ListByCampaign(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	campaignID, ok := parseUUIDParam(w, r, "campaignId")
	if !ok {
		return
	}

	characters, err := h.characterService.ListByCampaign(r.Context(), campaignID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, characters)
}

type UpdateCharacterRequest struct {
	Name         *string               `json:"name"`
	Kind         *string               `json:"kind"`
	OwnerID      *uuid.UUID            `json:"ownerId"`
	ClearOwner   bool                  `json:"clearOwner"`
	ClassName    *string               `json:"className"`
	Level        *int                  `json:"level"`
	Exp          *int                  `json:"exp"`
	CurrentHP    *int                  `json:"currentHp"`
	Stats        json.RawMessage       `json:"stats"`
	WeaponSkills *[]domain.WeaponSkill `json:"weaponSkills"`
}

func (h *CharacterHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	characterID, ok := parseUUIDParam(w, r, "characterId")
	if !ok {
		return
	}

	var req UpdateCharacterRequest
	if !parseBody(w, r, &req) {
		return
	}

	input := service.UpdateCharacterInput{
		Name:         req.Name,
		OwnerID:      req.OwnerID,
		ClearOwner:   req.ClearOwner,
		ClassName:    req.ClassName,
		Level:        req.Level,
		Exp:          req.Exp,
		CurrentHP:    req.CurrentHP,
		Stats:        req.Stats,
		WeaponSkills: req.WeaponSkills,
	}
	if req.Kind != nil {
		kind := domain.CharacterKind(*req.Kind)
		input.Kind = &kind
	}

	character, err := h.characterService.Update(r.Context(), characterID, userID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, character)
}

type UpdateHPRequest struct {
	CurrentHP int `json:"currentHp"`
}

func (h *CharacterHandler) UpdateHP(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	characterID, ok := parseUUIDParam(w, r, "characterId")
	if !ok {
		return
	}

	var req UpdateHPRequest
	if !parseBody(w, r, &req) {
		return
	}

	character, err := h.characterService.UpdateHP(r.Context(), characterID, userID, req.CurrentHP)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, character)
}

type AddItemRequest struct {
	ItemID  uuid.UUID `json:"itemId"`
	Uses    *int      `json:"uses"`
	Blessed bool      `json:"blessed"`
}

func (h *CharacterHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	characterID, ok := parseUUIDParam(w, r, "characterId")
	if !ok {
		return
	}

	var req AddItemRequest
	if !parseBody(w, r, &req) {
		return
	}

	row, err := h.characterService.AddItem(r.Context(), characterID, userID, service.AddItemInput{
		ItemID:  req.ItemID,
		Uses:    req.Uses,
		Blessed: req.Blessed,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, row)
}

func (h *CharacterHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	characterID, ok := parseUUIDParam(w, r, "characterId")
	if !ok {
		return
	}
	rowID, ok := parseUUIDParam(w, r, "rowId")
	if !ok {
		return
	}

	if err := h.characterService.RemoveItem(r.Context(), characterID, rowID, userID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type UpdateItemRequest struct {
	Uses    json.RawMessage `json:"uses"`
	Blessed *bool           `json:"blessed"`
}

// UpdateItem distinguishes "uses": null, which clears the counter, from an
// absent field, which leaves it alone.
func (h *CharacterHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	characterID, ok := parseUUIDParam(w, r, "characterId")
	if !ok {
		return
	}
	rowID, ok := parseUUIDParam(w, r, "rowId")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if !parseBody(w, r, &req) {
		return
	}

	input := service.UpdateItemInput{Blessed: req.Blessed}
	if len(req.Uses) > 0 {
		input.UsesSet = true
		if string(req.Uses) != "null" {
			var uses int
			if err := json.Unmarshal(req.Uses, &uses); err != nil {
				respondJSON(w, http.StatusBadRequest, errorResponse{Error: "uses must be a number or null"})
				return
			}
			input.Uses = &uses
		}
	}

	row, err := h.characterService.UpdateItem(r.Context(), characterID, rowID, userID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, row)
}

type ReorderItemsRequest struct {
	OrderedIDs []uuid.UUID `json:"orderedIds"`
}

func (h *CharacterHandler) ReorderItems(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	characterID, ok := parseUUIDParam(w, r, "characterId")
	if !ok {
		return
	}

	var req ReorderItemsRequest
	if !parseBody(w, r, &req) {
		return
	}

	items, err := h.characterService.Reorder(r.Context(), characterID, userID, req.OrderedIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

type EquipWeaponRequest struct {
	RowID *uuid.UUID `json:"rowId"`
}

func (h *CharacterHandler) EquipWeapon(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	characterID, ok := parseUUIDParam(w, r, "characterId")
	if !ok {
		return
	}

	var req EquipWeaponRequest
	if !parseBody(w, r, &req) {
		return
	}

	character, err := h.characterService.EquipWeapon(r.Context(), characterID, userID, req.RowID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, character)
}
