package handlers

import (
	"net/http"

	"github.com/dom/emblem-vtt/internal/api/middleware"
	"github.com/dom/emblem-vtt/internal/service"
	"github.com/google/uuid"
)

type TokenHandler struct {
	tokenService *service.TokenService
}

func NewTokenHandler(tokenService *service.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

type CreateTokenRequest struct {
	CharacterID *uuid.UUID `json:"characterId"`
	Name        string     `json:"name"`
	ImageURL    *string    `json:"imageUrl"`
	X           int        `json:"x"`
	Y           int        `json:"y"`
}

func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	mapID, ok := parseUUIDParam(w, r, "mapId")
	if !ok {
		return
	}

	var req CreateTokenRequest
	if !parseBody(w, r, &req) {
		return
	}

	token, err := h.tokenService.Create(r.Context(), mapID, userID, service.CreateTokenInput{
		CharacterID: req.CharacterID,
		Name:        req.Name,
		ImageURL:    req.ImageURL,
		X:           req.X,
		Y:           req.Y,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, token)
}

func (h *TokenHandler) ListByMap(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	mapID, ok := parseUUIDParam(w, r, "mapId")
	if !ok {
		return
	}

	tokens, err := h.tokenService.ListByMap(r.Context(), mapID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tokens)
}

type UpdateTokenRequest struct {
	CharacterID    *uuid.UUID `json:"characterId"`
	ClearCharacter bool       `json:"clearCharacter"`
	Name           *string    `json:"name"`
	ImageURL       *string    `json:"imageUrl"`
	X              *int       `json:"x"`
	Y              *int       `json:"y"`
}

func (h *TokenHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	tokenID, ok := parseUUIDParam(w, r, "tokenId")
	if !ok {
		return
	}

	var req UpdateTokenRequest
	if !parseBody(w, r, &req) {
		return
	}

	token, err := h.tokenService.Update(r.Context(), tokenID, userID, service.UpdateTokenInput{
		CharacterID:    req.CharacterID,
		ClearCharacter: req.ClearCharacter,
		Name:           req.Name,
		ImageURL:       req.ImageURL,
		X:              req.X,
		Y:              req.Y,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, token)
}

type MoveTokenRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (h *TokenHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	tokenID, ok := parseUUIDParam(w, r, "tokenId")
	if !ok {
		return
	}

	var req MoveTokenRequest
	if !parseBody(w, r, &req) {
		return
	}

	token, err := h.tokenService.Move(r.Context(), tokenID, userID, req.X, req.Y)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, token)
}

func (h *TokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	tokenID, ok := parseUUIDParam(w, r, "tokenId")
	if !ok {
		return
	}

	if err := h.tokenService.Delete(r.Context(), tokenID, userID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
