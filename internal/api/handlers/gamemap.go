package handlers

import (
	"net/http"

	"github.com/dom/emblem-vtt/internal/api/middleware"
	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/service"
)

type MapHandler struct {
	mapService *service.MapService
}

func NewMapHandler(mapService *service.MapService) *MapHandler {
	return &MapHandler{mapService: mapService}
}

type CreateMapRequest struct {
	Name       string          `json:"name"`
	ImageURL   *string         `json:"imageUrl"`
	TileGrid   domain.TileGrid `json:"tileGrid"`
	TileCountX *int            `json:"tileCountX"`
	TileCountY *int            `json:"tileCountY"`
	TileSizeX  *int            `json:"tileSizeX"`
	TileSizeY  *int            `json:"tileSizeY"`
	OffsetX    *int            `json:"offsetX"`
	OffsetY    *int            `json:"offsetY"`
}

func (h *MapHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	campaignID, ok := parseUUIDParam(w, r, "campaignId")
	if !ok {
		return
	}

	var req CreateMapRequest
	if !parseBody(w, r, &req) {
		return
	}

	m, err := h.mapService.Create(r.Context(), campaignID, userID, service.CreateMapInput{
		Name:       req.Name,
		ImageURL:   req.ImageURL,
		TileGrid:   req.TileGrid,
		TileCountX: req.TileCountX,
		TileCountY: req.TileCountY,
		TileSizeX:  req.TileSizeX,
		TileSizeY:  req.TileSizeY,
		OffsetX:    req.OffsetX,
		OffsetY:    req.OffsetY,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, m)
}

func (h *MapHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	mapID, ok := parseUUIDParam(w, r, "mapId")
	if !ok {
		return
	}

	m, err := h.mapService.Get(r.Context(), mapID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

func (h *MapHandler) ListByCampaign(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	campaignID, ok := parseUUIDParam(w, r, "campaignId")
	if !ok {
		return
	}

	maps, err := h.mapService.ListByCampaign(r.Context(), campaignID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, maps)
}

type UpdateMapRequest struct {
	Name       *string         `json:"name"`
	ImageURL   *string         `json:"imageUrl"`
	TileGrid   domain.TileGrid `json:"tileGrid"`
	TileCountX *int            `json:"tileCountX"`
	TileCountY *int            `json:"tileCountY"`
	TileSizeX  *int            `json:"tileSizeX"`
	TileSizeY  *int            `json:"tileSizeY"`
	OffsetX    *int            `json:"offsetX"`
	OffsetY    *int            `json:"offsetY"`
}

func (h *MapHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	mapID, ok := parseUUIDParam(w, r, "mapId")
	if !ok {
		return
	}

	var req UpdateMapRequest
	if !parseBody(w, r, &req) {
		return
	}

	m, err := h.mapService.Update(r.Context(), mapID, userID, service.UpdateMapInput{
		Name:       req.Name,
		ImageURL:   req.ImageURL,
		TileGrid:   req.TileGrid,
		TileCountX: req.TileCountX,
		TileCountY: req.TileCountY,
		TileSizeX:  req.TileSizeX,
		TileSizeY:  req.TileSizeY,
		OffsetX:    req.OffsetX,
		OffsetY:    req.OffsetY,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

func (h *MapHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	mapID, ok := parseUUIDParam(w, r, "mapId")
	if !ok {
		return
	}

	if err := h.mapService.Delete(r.Context(), mapID, userID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type CreatePresetRequest struct {
	Name       string          `json:"name"`
	TileGrid   domain.TileGrid `json:"tileGrid"`
	TileCountX int             `json:"tileCountX"`
	TileCountY int             `json:"tileCountY"`
}

func (h *MapHandler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	campaignID, ok := parseUUIDParam(w, r, "campaignId")
	if !ok {
		return
	}

	var req CreatePresetRequest
	if !parseBody(w, r, &req) {
		return
	}

	preset, err := h.mapService.CreatePreset(r.Context(), campaignID, userID, service.CreatePresetInput{
		Name:       req.Name,
		TileGrid:   req.TileGrid,
		TileCountX: req.TileCountX,
		TileCountY: req.TileCountY,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, preset)
}

type UpdatePresetRequest struct {
	Name       *string         `json:"name"`
	TileGrid   domain.TileGrid `json:"tileGrid"`
	TileCountX *int            `json:"tileCountX"`
	TileCountY *int            `json:"tileCountY"`
}

func (h *MapHandler) UpdatePreset(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	presetID, ok := parseUUIDParam(w, r, "presetId")
	if !ok {
		return
	}

	var req UpdatePresetRequest
	if !parseBody(w, r, &req) {
		return
	}

	preset, err := h.mapService.UpdatePreset(r.Context(), presetID, userID, service.UpdatePresetInput{
		Name:       req.Name,
		TileGrid:   req.TileGrid,
		TileCountX: req.TileCountX,
		TileCountY: req.TileCountY,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, preset)
}

func (h *MapHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	campaignID, ok := parseUUIDParam(w, r, "campaignId")
	if !ok {
		return
	}

	presets, err := h.mapService.ListPresets(r.Context(), campaignID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, presets)
}
