package handlers

import (
	"net/http"

	"github.com/dom/emblem-vtt/internal/api/middleware"
	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/service"
)

type RollHandler struct {
	rollService *service.RollService
}

func NewRollHandler(rollService *service.RollService) *RollHandler {
	return &RollHandler{rollService: rollService}
}

type CreateRollRequest struct {
	Type string `json:"type"`
}

func (h *RollHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	mapID, ok := parseUUIDParam(w, r, "mapId")
	if !ok {
		return
	}

	var req CreateRollRequest
	if !parseBody(w, r, &req) {
		return
	}

	roll, err := h.rollService.Roll(r.Context(), mapID, userID, domain.RollType(req.Type))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, roll)
}

func (h *RollHandler) ListByMap(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	mapID, ok := parseUUIDParam(w, r, "mapId")
	if !ok {
		return
	}

	limit, offset := parsePagination(r)
	rolls, err := h.rollService.ListByMap(r.Context(), mapID, userID, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rolls)
}
